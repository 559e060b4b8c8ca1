package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
	"quotedesk/internal/token"
)

// Auth groups the authentication endpoints.
type Auth struct {
	users  *store.UserStore
	tokens *token.Manager
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Manager) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPayload is the user object returned by login and /me. The explicit
// grant list is included as-is; admins bypass grant checks, so their list
// only shows what was explicitly granted.
type userPayload struct {
	*models.User
	Permissions []string `json:"permissions"`
}

// Login verifies credentials and issues a bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	user, err := a.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account is inactive")
		return
	}
	if !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	permissions, err := a.users.ExplicitGrants(r.Context(), user.ID)
	if err != nil {
		slog.Error("login grants failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	tok, err := a.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		slog.Error("token issue failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": tok,
		"user":  userPayload{User: user, Permissions: permissions},
	})
}

// Me returns the authenticated user with their explicit grants.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	permissions, err := a.users.ExplicitGrants(r.Context(), user.ID)
	if err != nil {
		slog.Error("me grants failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": userPayload{User: user, Permissions: permissions},
	})
}

// Refresh issues a fresh token for the authenticated user.
func (a *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	tok, err := a.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		slog.Error("token refresh failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}
