// internal/app/features/messages/thread.go
package messages

import (
	"context"
	"errors"
	"net/http"

	messagestore "github.com/dalemusser/leaguehub/internal/app/store/messages"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeThread handles GET /messages/{other}. Opening a thread marks what
// other sent as read.
func (h *Handler) ServeThread(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentUser(r)
	other, ok := h.partner(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Messages.MarkConversationRead(ctx, me.ID, other.ID.Hex()); err != nil {
		h.Log.Warn("mark read failed", zap.Error(err))
	}
	mine, err := h.Messages.ListForParticipant(ctx, me.ID)
	if err != nil {
		h.Log.Error("message list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, messagestore.Thread(mine, me.ID, other.ID.Hex()))
}

type sendInput struct {
	Message string `json:"message" validate:"max=5000"`
}

// HandleSend handles POST /messages/{other}. An optional "file" part is
// stored under chat_files first; if that fails nothing is written. A blank
// message with no file answers 204.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentUser(r)
	other, ok := h.partner(w, r)
	if !ok {
		return
	}
	var in sendInput
	if !formutil.Parse(w, r, limits.MaxDocumentUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	obj, hasFile, err := formutil.Upload(ctx, h.Blobs, r, "file", blobstore.DirChatFiles, nil)
	if err != nil {
		h.Log.Error("chat file upload failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	msg := models.Message{
		SenderID:   me.ID,
		SenderName: me.Name,
		ReceiverID: other.ID.Hex(),
		Message:    htmlsanitize.Text(in.Message),
	}
	if hasFile {
		msg.FileURL = obj.URL
		msg.FileName = obj.FileName
	}
	m, err := h.Messages.Create(ctx, msg)
	if errors.Is(err, messagestore.ErrEmptyMessage) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		if hasFile {
			_ = h.Blobs.Delete(ctx, obj.Key)
		}
		h.Log.Error("message send failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Created(w, respond.MsgSaved, m)
}

// HandleRead handles POST /messages/{other}/read.
func (h *Handler) HandleRead(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentUser(r)
	other, ok := h.partner(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Messages.MarkConversationRead(ctx, me.ID, other.ID.Hex())
	if err != nil {
		h.Log.Error("mark read failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]int64{"marked": n})
}
