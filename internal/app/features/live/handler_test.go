package live_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/features/live"
	"github.com/dalemusser/leaguehub/internal/app/system/coordinator"
	"github.com/dalemusser/leaguehub/internal/app/system/gates"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticFeed[T any] struct{ rows []T }

func (f staticFeed[T]) Subscribe(fn func([]T)) func() {
	fn(f.rows)
	return func() {}
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	sources := coordinator.Sources{
		Projects: staticFeed[models.Project]{rows: []models.Project{{Title: "Rastreio"}}},
	}
	h := live.NewHandler(testutil.SessionManager(t), roles.New(""), nil, sources, "", zap.NewNop())
	srv := httptest.NewServer(live.Routes(h))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// next reads frames until one satisfies ok.
func next(t *testing.T, conn *websocket.Conn, ok func(live.Frame) bool) live.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f live.Frame
		require.NoError(t, conn.ReadJSON(&f))
		require.Equal(t, live.FrameState, f.Type)
		if ok(f) {
			return f
		}
	}
}

func TestLive_SignedOutSettles(t *testing.T) {
	conn := dial(t)
	f := next(t, conn, func(f live.Frame) bool { return f.Phase == coordinator.Unauthenticated })
	require.Equal(t, gates.Home, f.View)
	require.Empty(t, f.Role)
	require.Nil(t, f.Profile)
}

func TestLive_RestrictedNavigationLandsHome(t *testing.T) {
	conn := dial(t)
	next(t, conn, func(f live.Frame) bool { return f.Phase == coordinator.Unauthenticated })

	require.NoError(t, conn.WriteJSON(live.ClientFrame{Navigate: gates.Projects}))
	next(t, conn, func(f live.Frame) bool { return f.View == gates.Projects })

	require.NoError(t, conn.WriteJSON(live.ClientFrame{Navigate: gates.Messages}))
	f := next(t, conn, func(f live.Frame) bool { return f.View != gates.Projects })
	require.Equal(t, gates.Home, f.View)
}
