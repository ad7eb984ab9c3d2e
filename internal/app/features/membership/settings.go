// internal/app/features/membership/settings.go
package membership

import (
	"context"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// MsgNoFile is returned when an upload endpoint receives no file.
const MsgNoFile = "Selecione um arquivo."

// settingsInput is the admin form. Rules arrive as one rule per line.
type settingsInput struct {
	SelectionStatus string                 `json:"selection_status" validate:"omitempty,oneof=open closed"`
	RulesText       string                 `json:"rules_text"`
	Calendar        []models.CalendarStage `json:"calendar"`
	Dates           models.SelectionDates  `json:"dates"`
	EditalURL       string                 `json:"edital_url" validate:"omitempty,url"`
}

// ServeSettings handles GET /membership.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Settings.GetMembership(ctx)
	if err != nil {
		h.Log.Error("membership settings load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, m)
}

// HandleSave handles PUT /membership. An omitted edital link keeps the
// stored one.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	var in settingsInput
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, err := h.Settings.GetMembership(ctx)
	if err != nil {
		h.Log.Error("membership settings load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	edital := in.EditalURL
	if edital == "" {
		edital = cur.EditalURL
	}
	saved, err := h.Settings.SaveMembership(ctx, models.MembershipSettings{
		EditalURL:       edital,
		SelectionStatus: in.SelectionStatus,
		Rules:           normalize.Lines(in.RulesText),
		Calendar:        in.Calendar,
		Dates:           in.Dates,
	})
	if err != nil {
		h.Log.Error("membership settings save failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.SettingsUpdated(r.Context(), r, actor, "membership")
	respond.Created(w, respond.MsgSaved, saved)
}

// HandleEdital handles POST /membership/edital with a "file" PDF.
func (h *Handler) HandleEdital(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	obj, ok := h.receive(w, r, limits.MaxDocumentUpload)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Settings.SetEditalURL(ctx, obj.URL); err != nil {
		h.Log.Error("edital save failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.SettingsUpdated(r.Context(), r, actor, "edital")
	respond.OK(w, map[string]string{"edital_url": obj.URL})
}

// ServeApp handles GET /settings/app.
func (h *Handler) ServeApp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Settings.GetApp(ctx)
	if err != nil {
		h.Log.Error("app settings load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, a)
}

// HandleLogo handles POST /settings/logo with a "file" image.
func (h *Handler) HandleLogo(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	obj, ok := h.receive(w, r, limits.MaxImageUpload)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Settings.SetLogo(ctx, obj.URL)
	if err != nil {
		h.Log.Error("logo save failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.SettingsUpdated(r.Context(), r, actor, "logo")
	respond.OK(w, a)
}

// receive parses a multipart body and stores its "file" part under settings/.
func (h *Handler) receive(w http.ResponseWriter, r *http.Request, maxBytes int64) (blobstore.Object, bool) {
	if !formutil.IsMultipart(r) {
		respond.BadRequest(w, MsgNoFile)
		return blobstore.Object{}, false
	}
	var none struct{}
	if !formutil.Parse(w, r, maxBytes, &none) {
		return blobstore.Object{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	obj, ok, err := formutil.Upload(ctx, h.Blobs, r, "file", blobstore.DirSettings, nil)
	if err != nil {
		h.Log.Error("settings upload failed", zap.Error(err))
		respond.ServerError(w)
		return blobstore.Object{}, false
	}
	if !ok {
		respond.BadRequest(w, MsgNoFile)
		return blobstore.Object{}, false
	}
	return obj, true
}
