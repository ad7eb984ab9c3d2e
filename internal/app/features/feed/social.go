// internal/app/features/feed/social.go
package feed

import (
	"context"
	"errors"
	"net/http"

	poststore "github.com/dalemusser/leaguehub/internal/app/store/posts"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// MsgEmptyComment is returned for a blank comment.
const MsgEmptyComment = "O comentário não pode ficar vazio."

// HandleLike handles POST /feed/{id}/like. It toggles the caller's like
// and reports the new state.
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	liked, err := h.Posts.ToggleLike(ctx, id, u.ID)
	if err != nil {
		h.writeErr(w, "like toggle failed", err)
		return
	}
	respond.OK(w, map[string]bool{"liked": liked})
}

type commentInput struct {
	Text string `json:"text" validate:"max=2000"`
}

// HandleComment handles POST /feed/{id}/comments.
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	var in commentInput
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	label := "student"
	if u.Role == models.RoleAdmin {
		label = "admin"
	}
	c, err := h.Posts.AddComment(ctx, id, models.Comment{
		UserID:    u.ID,
		UserName:  u.Name,
		UserPhoto: u.PhotoURL,
		UserRole:  label,
		Text:      htmlsanitize.Text(in.Text),
	})
	if errors.Is(err, poststore.ErrEmptyComment) {
		respond.BadRequest(w, MsgEmptyComment)
		return
	}
	if err != nil {
		h.writeErr(w, "comment failed", err)
		return
	}
	respond.Created(w, respond.MsgSaved, c)
}
