package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"quotedesk/internal/models"
	"quotedesk/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// UserKey is the context key for the authenticated user.
const UserKey contextKey = "user"

// UserLoader loads the live user record referenced by a verified token.
// The token is never trusted for role or active state; the row is.
type UserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// GrantChecker answers whether a user holds an explicitly granted
// permission. Admins never reach this check.
type GrantChecker interface {
	HasGrant(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
}

// Authenticate verifies the Authorization bearer token and loads the
// referenced user from the database, storing it in the request context.
// Missing tokens yield 401; invalid or expired tokens yield 403, as do
// tokens whose user no longer exists or has been deactivated. Role and
// active-state changes therefore take effect on the very next request.
func Authenticate(tokens *token.Manager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				slog.Error("load user for token", "error", err, "user_id", claims.UserID)
				writeError(w, http.StatusInternalServerError, "Authentication failed")
				return
			}
			if user == nil || !user.IsActive {
				writeError(w, http.StatusForbidden, "User not found or inactive")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 403 unless the authenticated user has the admin
// role. Must be applied after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates a route behind a named permission. Admins pass
// unconditionally; other users must hold an explicit grant, checked
// against the database on every request. Denials name the missing
// permission so the UI can explain itself. Must be applied after
// Authenticate.
func RequirePermission(grants GrantChecker, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			if user.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := grants.HasGrant(r.Context(), user.ID, permission)
			if err != nil {
				slog.Error("permission check", "error", err, "user_id", user.ID, "permission", permission)
				writeError(w, http.StatusInternalServerError, "Permission check failed")
				return
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{
					"error":    "Permission denied",
					"required": permission,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil if Authenticate has not run.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// writeError writes the standard JSON error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
