// internal/app/features/assistant/handler.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	projectstore "github.com/dalemusser/leaguehub/internal/app/store/projects"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/app/system/tutor"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler streams the study assistant's replies as server-sent events.
// A nil Tutor answers every question with the apology.
type Handler struct {
	Tutor    tutor.Streamer
	League   tutor.League
	Roster   *memberstore.Store
	Projects *projectstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, t tutor.Streamer, league tutor.League, logger *zap.Logger) *Handler {
	return &Handler{
		Tutor:    t,
		League:   league,
		Roster:   memberstore.New(db),
		Projects: projectstore.New(db),
		Log:      logger,
	}
}

// Frame is one server-sent event body.
type Frame struct {
	Text  string         `json:"text"`
	Links []tutor.Source `json:"links,omitempty"`
	Done  bool           `json:"done,omitempty"`
	Error bool           `json:"error,omitempty"`
}

// ServeGreeting handles GET /assistant.
func (h *Handler) ServeGreeting(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, Frame{Text: tutor.Greeting, Done: true})
}

type chatInput struct {
	Message string `json:"message" validate:"notblank,max=4000"`
}

// HandleChat handles POST /assistant/chat. The accumulated reply is sent
// after every chunk; a failure ends the stream with the apology.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var in chatInput
	if !respond.Decode(w, r, &in) {
		return
	}
	instruction, err := h.instruction(r.Context())
	if err != nil {
		h.Log.Error("tutor context load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	emit := func(f Frame) {
		b, _ := json.Marshal(f)
		fmt.Fprintf(w, "data: %s\n\n", b)
		if flusher != nil {
			flusher.Flush()
		}
	}

	if h.Tutor == nil {
		emit(Frame{Text: tutor.Apology, Done: true, Error: true})
		return
	}
	final, err := tutor.Reply(r.Context(), h.Tutor, instruction, in.Message, func(t tutor.Transcript) {
		emit(Frame{Text: t.Text, Links: t.Sources})
	})
	if err != nil {
		h.Log.Warn("tutor stream failed", zap.Error(err))
		emit(Frame{Text: tutor.Apology, Done: true, Error: true})
		return
	}
	emit(Frame{Text: final.Text, Links: final.Sources, Done: true})
}

func (h *Handler) instruction(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	roster, err := h.Roster.ListAll(ctx)
	if err != nil {
		return "", err
	}
	projects, err := h.Projects.ListAll(ctx)
	if err != nil {
		return "", err
	}
	return tutor.Instruction(h.League, roster, projects), nil
}
