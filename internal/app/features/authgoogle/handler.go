// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	accountstore "github.com/dalemusser/leaguehub/internal/app/store/accounts"
	"github.com/dalemusser/leaguehub/internal/app/store/oauthstate"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/signin"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookie = "leaguehub-oauth"
	stateTTL    = 10 * time.Minute
)

// Handler handles Google OAuth authentication.
type Handler struct {
	Accounts   *accountstore.Store
	StateStore *oauthstate.Store
	SignIn     *signin.Service
	AuditLog   *auditlog.Logger
	Cookies    *securecookie.SecureCookie
	Secure     bool
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string

	// fetchUser is replaced in tests.
	fetchUser func(ctx context.Context, cfg *oauth2.Config, code string) (*googleUserInfo, error)
}

// NewHandler creates a new Google OAuth handler. sessionKey signs the
// short-lived cookie that binds the state token to the browser.
func NewHandler(
	db *mongo.Database,
	svc *signin.Service,
	audit *auditlog.Logger,
	sessionKey string,
	secure bool,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	sc := securecookie.New([]byte(sessionKey), nil)
	sc.MaxAge(int(stateTTL.Seconds()))
	return &Handler{
		Accounts:     accountstore.New(db),
		StateStore:   oauthstate.New(db),
		SignIn:       svc,
		AuditLog:     audit,
		Cookies:      sc,
		Secure:       secure,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimRight(baseURL, "/") + "/auth/google/callback",
		fetchUser:    exchangeAndFetch,
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	returnURL := safeReturn(query.Get(r, "return"))
	if err := h.StateStore.Save(ctx, state, returnURL, time.Now().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if err := h.setStateCookie(w, state); err != nil {
		h.Log.Error("failed to encode OAuth state cookie", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || !h.stateCookieMatches(r, state) {
		h.Log.Warn("OAuth state missing or not bound to this browser")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}
	h.clearStateCookie(w)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctx, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}
	info, err := h.fetchUser(r.Context(), h.oauth2Config(), code)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	if err := h.finish(w, r, info); err != nil {
		reason := "internal"
		if errors.Is(err, signin.ErrInactive) {
			reason = "account_disabled"
		} else if errors.Is(err, errUnverified) {
			reason = "email_unverified"
		}
		h.Log.Warn("Google sign-in failed", zap.String("email", info.Email), zap.Error(err))
		h.AuditLog.LoginFailed(r.Context(), r, info.Email, err.Error())
		http.Redirect(w, r, "/login?error="+reason, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

var errUnverified = errors.New("google email not verified")

// finish links or creates the account for info and signs it in.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, info *googleUserInfo) error {
	if !info.EmailVerified {
		return errUnverified
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	email := normalize.Email(info.Email)
	acct, err := h.Accounts.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, accountstore.ErrNotFound):
		acct, err = h.Accounts.Create(ctx, models.Account{
			Email:       email,
			DisplayName: info.Name,
			PhotoURL:    info.Picture,
			Provider:    models.ProviderGoogle,
			GoogleID:    info.ID,
		})
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		h.AuditLog.Signup(r.Context(), r, acct.ID, email, models.ProviderGoogle)
	case err != nil:
		return fmt.Errorf("account lookup: %w", err)
	case acct.GoogleID == "":
		if err := h.Accounts.LinkGoogle(ctx, acct.ID, info.ID, info.Picture); err != nil {
			h.Log.Warn("failed to link Google id", zap.String("account_id", acct.ID.Hex()), zap.Error(err))
		}
		if acct.PhotoURL == "" {
			acct.PhotoURL = info.Picture
		}
	}

	if _, err := h.SignIn.Complete(w, r, acct); err != nil {
		return err
	}
	h.AuditLog.LoginSuccess(r.Context(), r, acct.ID, email, models.ProviderGoogle)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func exchangeAndFetch(ctx context.Context, cfg *oauth2.Config, code string) (*googleUserInfo, error) {
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	resp, err := cfg.Client(ctx, token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (h *Handler) setStateCookie(w http.ResponseWriter, state string) error {
	enc, err := h.Cookies.Encode(stateCookie, state)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    enc,
		Path:     "/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handler) stateCookieMatches(r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	var got string
	if err := h.Cookies.Decode(stateCookie, c.Value, &got); err != nil {
		return false
	}
	return got == state
}

func (h *Handler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth/google", MaxAge: -1, HttpOnly: true, Secure: h.Secure})
}

// safeReturn keeps only same-site relative paths.
func safeReturn(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.Contains(s, "\\") {
		return "/"
	}
	return s
}
