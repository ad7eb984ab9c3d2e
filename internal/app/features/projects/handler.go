// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	projectstore "github.com/dalemusser/leaguehub/internal/app/store/projects"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const collection = "projects"

// Handler serves the public project showcase and its admin editor.
type Handler struct {
	Projects *projectstore.Store
	Blobs    blobstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, blobs blobstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projectstore.New(db),
		Blobs:    blobs,
		AuditLog: audit,
		Log:      logger,
	}
}

// projectView adds the display label for the status.
type projectView struct {
	models.Project
	StatusLabel string `json:"status_label"`
}

// ServeList handles GET /projects, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Projects.ListAll(ctx)
	if err != nil {
		h.Log.Error("project list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	out := make([]projectView, 0, len(rows))
	for _, p := range rows {
		out = append(out, projectView{Project: p, StatusLabel: p.StatusLabel()})
	}
	respond.OK(w, out)
}

// HandleCreate handles POST /projects with an optional "image".
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	var in models.Project
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	if !h.attachImage(ctx, w, r, &in) {
		return
	}
	p, err := h.Projects.Create(ctx, in)
	if err != nil {
		h.Log.Error("project create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentCreated, collection, p.ID.Hex())
	respond.Created(w, respond.MsgSaved, p)
}

// HandleUpdate handles PUT /projects/{id}. The stored image is kept unless
// a new one is uploaded or image_url is sent.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	var in models.Project
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	cur, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, "project load failed", err)
		return
	}
	if in.ImageURL == "" {
		in.ImageURL = cur.ImageURL
	}
	if !h.attachImage(ctx, w, r, &in) {
		return
	}
	if err := h.Projects.Update(ctx, id, in); err != nil {
		h.writeErr(w, "project update failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentUpdated, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgSaved)
}

// HandleDelete handles DELETE /projects/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Projects.Delete(ctx, id); err != nil {
		h.writeErr(w, "project delete failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentDeleted, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}

func (h *Handler) attachImage(ctx context.Context, w http.ResponseWriter, r *http.Request, p *models.Project) bool {
	obj, ok, err := formutil.Upload(ctx, h.Blobs, r, "image", blobstore.DirProjects, nil)
	if err != nil {
		h.Log.Error("project image upload failed", zap.Error(err))
		respond.ServerError(w)
		return false
	}
	if ok {
		p.ImageURL = obj.URL
	}
	return true
}

func (h *Handler) writeErr(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, projectstore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	h.Log.Error(msg, zap.Error(err))
	respond.ServerError(w)
}
