// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeProfile handles GET /profile. The role in the response is the derived
// one, not whatever the stored profile still says.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, respond.MsgBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("profile load failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	u.Role = role
	respond.OK(w, u)
}

// HandleUpdate handles POST /profile. It accepts JSON or a multipart form
// with an optional "photo" file.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, respond.MsgBadRequest)
		return
	}

	var in userstore.ProfileUpdate
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	obj, uploaded, err := formutil.Upload(ctx, h.Blobs, r, "photo", blobstore.DirAvatars, nil)
	if err != nil {
		h.Log.Error("avatar upload failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	if uploaded {
		in.PhotoURL = obj.URL
	}

	u, err := h.Users.UpdateProfile(ctx, uid, in)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("profile update failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	u.Role = role
	respond.JSON(w, http.StatusOK, respond.Notice{Notice: respond.MsgSaved, Data: u})
}
