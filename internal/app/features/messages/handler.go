// internal/app/features/messages/handler.go
package messages

import (
	"context"
	"errors"
	"net/http"

	messagestore "github.com/dalemusser/leaguehub/internal/app/store/messages"
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MsgNotAllowed is returned when a member writes to anyone but the
// administrator.
const MsgNotAllowed = "Você só pode conversar com a administração."

// Handler serves direct messages between members and the administrator.
type Handler struct {
	Messages *messagestore.Store
	Users    *userstore.Store
	Resolver roles.Resolver
	Blobs    blobstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, resolver roles.Resolver, blobs blobstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Messages: messagestore.New(db),
		Users:    userstore.New(db),
		Resolver: resolver,
		Blobs:    blobs,
		Log:      logger,
	}
}

// Contact is one conversation partner with the caller's unread count.
type Contact struct {
	ID       string      `json:"id"`
	FullName string      `json:"full_name"`
	PhotoURL string      `json:"photo_url,omitempty"`
	Role     models.Role `json:"role"`
	Unread   int         `json:"unread"`
}

// ServeContacts handles GET /messages. A member sees the administrator; the
// administrator sees every other profile.
func (h *Handler) ServeContacts(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentUser(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var people []models.User
	if me.Role == models.RoleAdmin {
		all, err := h.Users.ListAll(ctx)
		if err != nil {
			h.Log.Error("profile list failed", zap.Error(err))
			respond.ServerError(w)
			return
		}
		for _, u := range all {
			if u.ID.Hex() != me.ID {
				people = append(people, u)
			}
		}
	} else {
		admin, err := h.Users.GetByEmail(ctx, h.Resolver.AdminEmail)
		if err != nil && !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("admin profile lookup failed", zap.Error(err))
			respond.ServerError(w)
			return
		}
		if err == nil {
			people = append(people, admin)
		}
	}

	unread, err := h.Messages.UnreadCounts(ctx, me.ID)
	if err != nil {
		h.Log.Error("unread count failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	out := make([]Contact, 0, len(people))
	for _, u := range people {
		role := models.RoleVisitor
		if h.Resolver.IsAdmin(u.Email) {
			role = models.RoleAdmin
		} else if u.Role != "" {
			role = u.Role
		}
		out = append(out, Contact{
			ID:       u.ID.Hex(),
			FullName: u.FullName,
			PhotoURL: u.PhotoURL,
			Role:     role,
			Unread:   unread[u.ID.Hex()],
		})
	}
	respond.OK(w, out)
}

// partner loads the {other} profile and checks the caller may write to it.
func (h *Handler) partner(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	role, _, _, _ := authz.UserCtx(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "other"))
	if err != nil {
		respond.NotFound(w)
		return models.User{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	other, err := h.Users.GetByID(ctx, oid)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.NotFound(w)
		return models.User{}, false
	}
	if err != nil {
		h.Log.Error("partner lookup failed", zap.Error(err))
		respond.ServerError(w)
		return models.User{}, false
	}
	if !authz.CanMessage(role, h.Resolver.IsAdmin(other.Email)) {
		respond.Message(w, http.StatusForbidden, MsgNotAllowed)
		return models.User{}, false
	}
	return other, true
}
