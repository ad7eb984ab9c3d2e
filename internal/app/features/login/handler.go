// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	accountstore "github.com/dalemusser/leaguehub/internal/app/store/accounts"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/authutil"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/ratelimit"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/signin"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves password sign-in and sign-up.
type Handler struct {
	Accounts      *accountstore.Store
	SignIn        *signin.Service
	AuditLog      *auditlog.Logger
	Limiter       *ratelimit.SignInLimiter
	GoogleEnabled bool
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, svc *signin.Service, audit *auditlog.Logger, limiter *ratelimit.SignInLimiter, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:      accountstore.New(db),
		SignIn:        svc,
		AuditLog:      audit,
		Limiter:       limiter,
		GoogleEnabled: googleEnabled,
		Log:           logger,
	}
}

// SessionView is the signed-in identity returned to the client.
type SessionView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	PhotoURL string      `json:"photo_url,omitempty"`
	Role     models.Role `json:"role"`
}

func viewOf(u *auth.SessionUser) SessionView {
	return SessionView{ID: u.ID, Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL, Role: u.Role}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	FullName string `json:"full_name" validate:"max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// ServeLogin handles GET /login: tells the client which sign-in methods exist
// and who is signed in, if anyone.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	out := struct {
		GoogleEnabled bool         `json:"google_enabled"`
		User          *SessionView `json:"user,omitempty"`
	}{GoogleEnabled: h.GoogleEnabled}
	if u, ok := auth.CurrentUser(r); ok {
		v := viewOf(u)
		out.User = &v
	}
	respond.OK(w, out)
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !respond.Decode(w, r, &in) {
		return
	}
	email := normalize.Email(in.Email)
	if msg, ok := h.Limiter.Check(r, email); !ok {
		respond.Message(w, http.StatusTooManyRequests, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, accountstore.ErrNotFound):
		err = authutil.ErrInvalidCredential
	case err != nil:
		h.Log.Error("account lookup failed", zap.String("email", email), zap.Error(err))
	case !authutil.CheckPassword(acct.PasswordHash, in.Password):
		err = authutil.ErrInvalidCredential
	}
	if err != nil {
		h.AuditLog.LoginFailed(r.Context(), r, email, err.Error())
		h.fail(w, err)
		return
	}

	su, err := h.SignIn.Complete(w, r, acct)
	if err != nil {
		h.Log.Warn("sign-in could not complete", zap.String("email", email), zap.Error(err))
		h.AuditLog.LoginFailed(r.Context(), r, email, err.Error())
		h.fail(w, err)
		return
	}
	h.Limiter.Succeeded(email)
	h.AuditLog.LoginSuccess(r.Context(), r, acct.ID, email, models.ProviderPassword)
	respond.OK(w, viewOf(su))
}

// HandleRegister handles POST /register: creates the account and signs in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if !respond.Decode(w, r, &in) {
		return
	}
	email := normalize.Email(in.Email)
	if msg, ok := h.Limiter.Check(r, email); !ok {
		respond.Message(w, http.StatusTooManyRequests, msg)
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.Create(ctx, models.Account{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  in.FullName,
		Provider:     models.ProviderPassword,
	})
	if errors.Is(err, accountstore.ErrDuplicateEmail) {
		err = authutil.ErrEmailInUse
	}
	if err != nil {
		if !errors.Is(err, authutil.ErrEmailInUse) {
			h.Log.Error("account create failed", zap.String("email", email), zap.Error(err))
		}
		h.fail(w, err)
		return
	}
	h.AuditLog.Signup(r.Context(), r, acct.ID, email, models.ProviderPassword)

	su, err := h.SignIn.Complete(w, r, acct)
	if err != nil {
		h.Log.Warn("sign-in after sign-up could not complete", zap.String("email", email), zap.Error(err))
		h.fail(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, viewOf(su))
}

// fail writes the fixed message for an authentication error.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Message(w, statusFor(err), authutil.Message(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, authutil.ErrInvalidCredential), errors.Is(err, signin.ErrInactive):
		return http.StatusUnauthorized
	case errors.Is(err, authutil.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, authutil.ErrWeakPassword):
		return http.StatusUnprocessableEntity
	case authutil.Message(err) == authutil.MsgNetwork:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
