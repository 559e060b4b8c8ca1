package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Users groups user and permission management endpoints.
type Users struct {
	users *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// List returns all user accounts.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type userRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
	IsActive *bool       `json:"is_active"`
}

func (req *userRequest) validate(passwordRequired bool) string {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.Email == "" || req.FullName == "" {
		return "Username, email and full name are required"
	}
	if passwordRequired && req.Password == "" {
		return "Password is required"
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleUser {
		return "Invalid role"
	}
	return ""
}

// Create adds a new user account.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		slog.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Update modifies a user account. The password is only changed when one
// is supplied.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user, err := h.users.Update(r.Context(), id, req.Username, req.Email, req.FullName, req.Role, isActive, req.Password)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		slog.Error("update user", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete removes a user account. Users cannot delete themselves.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if actor := middleware.UserFromCtx(r.Context()); actor != nil && actor.ID == id {
		writeError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	ok, err := h.users.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete user", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ListAllPermissions returns the full permission catalog.
func (h *Users) ListAllPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.users.ListPermissions(r.Context())
	if err != nil {
		slog.Error("list permissions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch permissions")
		return
	}
	writeJSON(w, http.StatusOK, perms)
}

// GetPermissions returns a user's explicit grants.
func (h *Users) GetPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	names, err := h.users.ExplicitGrants(r.Context(), id)
	if err != nil {
		slog.Error("get user permissions", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch permissions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"permissions": names})
}

type setPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// SetPermissions replaces a user's explicit grant set.
func (h *Users) SetPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setPermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("set permissions lookup", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update permissions")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	actor := middleware.UserFromCtx(r.Context())
	if err := h.users.ReplaceGrants(r.Context(), id, req.PermissionIDs, actor.ID); err != nil {
		slog.Error("replace grants", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update permissions")
		return
	}

	slog.Info("permissions replaced", "user_id", id, "granted_by", actor.ID, "count", len(req.PermissionIDs))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Permissions updated successfully"})
}
