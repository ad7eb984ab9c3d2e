package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SessionManager returns a cookie session manager for handler tests.
func SessionManager(t testing.TB) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}

// TestUser is the identity injected into handler tests.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

// AdminUser returns the designated administrator.
func AdminUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "Administrador Master", Email: "lapibfesgo@gmail.com", Role: models.RoleAdmin}
}

// MemberUser returns a rostered member.
func MemberUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "Ana Membro", Email: "ana@uni.br", Role: models.RoleMember}
}

// VisitorUser returns a signed-in person with no roster row.
func VisitorUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "Vera Visitante", Email: "vera@uni.br", Role: models.RoleVisitor}
}

// WithUser injects user into the request context, bypassing the session.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// NewRequest creates a request with an optional body.
func NewRequest(method, target string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, target, body)
}

// NewJSONRequest encodes v as the request body.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode body: %v", err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	return r
}

// NewAuthenticatedRequest creates a JSON request carrying user.
func NewAuthenticatedRequest(t *testing.T, method, target string, v any, user TestUser) *http.Request {
	t.Helper()
	var r *http.Request
	if v == nil {
		r = httptest.NewRequest(method, target, nil)
		r.Header.Set("Accept", "application/json")
	} else {
		r = NewJSONRequest(t, method, target, v)
	}
	return WithUser(r, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertions.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the status code.
func (r *ResponseRecorder) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks that the body contains s.
func (r *ResponseRecorder) AssertContains(t testing.TB, s string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), s) {
		t.Errorf("response body does not contain %q: %s", s, r.Body.String())
	}
}

// DecodeJSON decodes the body into v.
func (r *ResponseRecorder) DecodeJSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
}

// FilePart is one file of a multipart test request.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Body        string
}

// NewMultipartRequest builds a multipart form with payload encoded as JSON
// in the "payload" field, followed by files.
func NewMultipartRequest(t *testing.T, method, target string, payload any, files ...FilePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		if err := mw.WriteField("payload", string(b)); err != nil {
			t.Fatalf("write payload: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := io.WriteString(part, f.Body); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Accept", "application/json")
	return r
}

// LocalBlobs returns a disk blob store rooted in a temp dir.
func LocalBlobs(t *testing.T) *blobstore.Local {
	t.Helper()
	l, err := blobstore.NewLocal(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("local blob store: %v", err)
	}
	return l
}
