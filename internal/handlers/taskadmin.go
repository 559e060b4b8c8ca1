package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// TaskAdmin groups department and subcategory management endpoints.
type TaskAdmin struct {
	admin *store.TaskAdminStore
}

// NewTaskAdmin creates a new TaskAdmin handler group.
func NewTaskAdmin(admin *store.TaskAdminStore) *TaskAdmin {
	return &TaskAdmin{admin: admin}
}

// ListDepartments returns all departments with usage counts.
func (h *TaskAdmin) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.admin.ListDepartments(r.Context())
	if err != nil {
		slog.Error("list departments", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch departments")
		return
	}
	if deps == nil {
		deps = []models.TaskDepartment{}
	}
	writeJSON(w, http.StatusOK, deps)
}

// CreateDepartment adds a department.
func (h *TaskAdmin) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var d models.TaskDepartment
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	d.IsActive = true

	user := middleware.UserFromCtx(r.Context())
	d.CreatedBy = &user.ID

	created, err := h.admin.CreateDepartment(r.Context(), &d)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Department already exists")
			return
		}
		slog.Error("create department", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create department")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateDepartment modifies a department.
func (h *TaskAdmin) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var d models.TaskDepartment
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	updated, err := h.admin.UpdateDepartment(r.Context(), id, &d)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Department already exists")
			return
		}
		slog.Error("update department", "error", err, "department_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update department")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Department not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDepartment removes a department unless tasks still reference it.
func (h *TaskAdmin) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.admin.DeleteDepartment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrInUse) {
			writeError(w, http.StatusBadRequest, "Department has tasks assigned and cannot be deleted")
			return
		}
		slog.Error("delete department", "error", err, "department_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete department")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Department not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Department deleted successfully"})
}

// ListSubcategories returns subcategories, optionally for ?department_id=.
func (h *TaskAdmin) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	var departmentID *uuid.UUID
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid department_id")
			return
		}
		departmentID = &id
	}

	subs, err := h.admin.ListSubcategories(r.Context(), departmentID)
	if err != nil {
		slog.Error("list subcategories", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch subcategories")
		return
	}
	if subs == nil {
		subs = []models.TaskSubcategory{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// CreateSubcategory adds a subcategory under a department.
func (h *TaskAdmin) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var sc models.TaskSubcategory
	if err := decodeJSON(r, &sc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if sc.DepartmentID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Department is required")
		return
	}
	sc.IsActive = true

	user := middleware.UserFromCtx(r.Context())
	sc.CreatedBy = &user.ID

	created, err := h.admin.CreateSubcategory(r.Context(), &sc)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Subcategory already exists in this department")
			return
		}
		slog.Error("create subcategory", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create subcategory")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSubcategory modifies a subcategory.
func (h *TaskAdmin) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var sc models.TaskSubcategory
	if err := decodeJSON(r, &sc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	updated, err := h.admin.UpdateSubcategory(r.Context(), id, &sc)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Subcategory already exists in this department")
			return
		}
		slog.Error("update subcategory", "error", err, "subcategory_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update subcategory")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Subcategory not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSubcategory removes a subcategory unless tasks still reference it.
func (h *TaskAdmin) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.admin.DeleteSubcategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrInUse) {
			writeError(w, http.StatusBadRequest, "Subcategory has tasks assigned and cannot be deleted")
			return
		}
		slog.Error("delete subcategory", "error", err, "subcategory_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete subcategory")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Subcategory not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subcategory deleted successfully"})
}
