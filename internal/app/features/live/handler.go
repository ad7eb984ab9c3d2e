// Package live serves the websocket channel that pushes each client's
// session state. One connection owns one coordinator.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/coordinator"
	"github.com/dalemusser/leaguehub/internal/app/system/gates"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// FrameState is the type of every server frame carrying a snapshot.
const FrameState = "state"

// Frame is what the server writes.
type Frame struct {
	Type string `json:"type"`
	coordinator.Snapshot
}

// ClientFrame is what the client may send.
type ClientFrame struct {
	Navigate gates.View `json:"navigate"`
}

// Handler upgrades /live requests.
type Handler struct {
	Sessions *auth.SessionManager
	Resolver roles.Resolver
	Profiles coordinator.Profiles
	Sources  coordinator.Sources
	Log      *zap.Logger

	upgrader websocket.Upgrader
}

// NewHandler builds a Handler. allowedOrigin restricts the Origin header
// when set; an empty value accepts any origin.
func NewHandler(sm *auth.SessionManager, resolver roles.Resolver, profiles coordinator.Profiles, sources coordinator.Sources, allowedOrigin string, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: sm,
		Resolver: resolver,
		Profiles: profiles,
		Sources:  sources,
		Log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigin == "" || r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// ServeLive handles GET /live.
func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	var acct *coordinator.Account
	if u, ok := h.Sessions.UserFromRequest(r); ok {
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			acct = &coordinator.Account{ID: id, Email: u.Email, DisplayName: u.Name, PhotoURL: u.PhotoURL}
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Debug("live upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	dirty := make(chan struct{}, 1)
	signal := func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}
	c := coordinator.New(coordinator.Config{
		Resolver: h.Resolver,
		Profiles: h.Profiles,
		Sources:  h.Sources,
		Log:      h.Log,
		OnChange: signal,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(ctx, conn, c, dirty)
	}()
	mounted := make(chan struct{})
	go func() {
		defer close(mounted)
		if err := c.Mount(ctx, acct); err != nil {
			h.Log.Info("live session fell back to signed out", zap.Error(err))
		}
	}()
	signal()

	h.readPump(conn, c)

	cancel()
	<-done
	<-mounted
	c.Close()
	_ = conn.Close()
}

func (h *Handler) readPump(conn *websocket.Conn, c *coordinator.Coordinator) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.Log.Debug("live read ended", zap.Error(err))
			}
			return
		}
		var f ClientFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			h.Log.Debug("live frame ignored", zap.Error(err))
			continue
		}
		if f.Navigate != "" {
			c.Navigate(f.Navigate)
		}
	}
}

func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, c *coordinator.Coordinator, dirty <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-dirty:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Frame{Type: FrameState, Snapshot: c.Render()}); err != nil {
				h.Log.Debug("live write failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
