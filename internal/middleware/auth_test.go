package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"quotedesk/internal/models"
	"quotedesk/internal/token"
)

// fakeUsers serves a fixed set of user rows.
type fakeUsers struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.users[id], nil
}

// fakeGrants answers permission checks from a fixed grant set.
type fakeGrants struct {
	grants map[string]bool
}

func (f *fakeGrants) HasGrant(_ context.Context, _ uuid.UUID, permission string) (bool, error) {
	return f.grants[permission], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestAuthenticateMissingToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	handler := Authenticate(tokens, &fakeUsers{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Access token required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	handler := Authenticate(tokens, &fakeUsers{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid or expired token" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleUser, IsActive: false}
	users := &fakeUsers{users: map[uuid.UUID]*models.User{user.ID: user}}

	signed, err := tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := Authenticate(tokens, users)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "User not found or inactive" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAuthenticateLoadsUserIntoContext(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Username: "carol", Role: models.RoleUser, IsActive: true}
	users := &fakeUsers{users: map[uuid.UUID]*models.User{user.ID: user}}

	signed, err := tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got *models.User
	handler := Authenticate(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("context user = %+v, want %s", got, user.ID)
	}
}

func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserKey, user))
}

func TestRequirePermissionAdminBypass(t *testing.T) {
	grants := &fakeGrants{grants: map[string]bool{}} // no grants at all
	handler := RequirePermission(grants, models.PermDeleteClients)(okHandler())

	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/clients/x", nil), admin)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}

func TestRequirePermissionGranted(t *testing.T) {
	grants := &fakeGrants{grants: map[string]bool{models.PermViewClients: true}}
	handler := RequirePermission(grants, models.PermViewClients)(okHandler())

	user := &models.User{ID: uuid.New(), Role: models.RoleUser, IsActive: true}
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/clients", nil), user)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequirePermissionDeniedNamesPermission(t *testing.T) {
	grants := &fakeGrants{grants: map[string]bool{}}
	handler := RequirePermission(grants, models.PermDeleteClients)(okHandler())

	user := &models.User{ID: uuid.New(), Role: models.RoleUser, IsActive: true}
	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/clients/x", nil), user)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Permission denied" {
		t.Errorf("error = %q", body["error"])
	}
	if body["required"] != models.PermDeleteClients {
		t.Errorf("required = %q, want %q", body["required"], models.PermDeleteClients)
	}
}

func TestRequirePermissionNoUser(t *testing.T) {
	grants := &fakeGrants{grants: map[string]bool{}}
	handler := RequirePermission(grants, models.PermViewClients)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
