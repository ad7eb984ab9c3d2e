// internal/app/features/feed/posts.go
package feed

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	poststore "github.com/dalemusser/leaguehub/internal/app/store/posts"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

const collection = "posts"

// MsgEmptyPost is returned for a post with neither caption nor media.
const MsgEmptyPost = "Escreva uma legenda ou anexe uma mídia."

type captionInput struct {
	Caption string `json:"caption" validate:"max=5000"`
}

// ServeList handles GET /feed, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	posts, err := h.Posts.ListAll(ctx)
	if err != nil {
		h.Log.Error("feed list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, posts)
}

// HandleCreate handles POST /feed: a caption plus any number of "media"
// files. If one upload fails the post is not written.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, name, actor, _ := authz.UserCtx(r)
	var in captionInput
	if !formutil.Parse(w, r, limits.MaxPostUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	objs, err := formutil.UploadAll(ctx, h.Blobs, r, "media", blobstore.DirPosts)
	if err != nil {
		h.Log.Error("feed media upload failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	caption := htmlsanitize.Text(in.Caption)
	if caption == "" && len(objs) == 0 {
		respond.BadRequest(w, MsgEmptyPost)
		return
	}
	media := make([]models.MediaItem, 0, len(objs))
	for _, o := range objs {
		media = append(media, models.MediaItem{URL: o.URL, Type: blobstore.MediaType(o.ContentType)})
	}

	p, err := h.Posts.Create(ctx, models.Post{
		Media:       media,
		Caption:     caption,
		Author:      name,
		AuthorID:    actor.Hex(),
		IsAdminPost: true,
	})
	if err != nil {
		for _, o := range objs {
			_ = h.Blobs.Delete(ctx, o.Key)
		}
		h.Log.Error("post create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentCreated, collection, p.ID.Hex())
	respond.Created(w, respond.MsgSaved, p)
}

// HandleCaption handles PUT /feed/{id}.
func (h *Handler) HandleCaption(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	var in captionInput
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.UpdateCaption(ctx, id, htmlsanitize.Text(in.Caption)); err != nil {
		h.writeErr(w, "caption update failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentUpdated, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgSaved)
}

// HandleDelete handles DELETE /feed/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Delete(ctx, id); err != nil {
		h.writeErr(w, "post delete failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentDeleted, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}

func (h *Handler) writeErr(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, poststore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	h.Log.Error(msg, zap.Error(err))
	respond.ServerError(w)
}
