package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Projects groups project endpoints.
type Projects struct {
	projects *store.ProjectStore
}

// NewProjects creates a new Projects handler group.
func NewProjects(projects *store.ProjectStore) *Projects {
	return &Projects{projects: projects}
}

// List returns all projects with their task aggregates.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		slog.Error("list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get returns one project.
func (h *Projects) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get project", "error", err, "project_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func validateProject(p *models.Project) string {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "Name is required"
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if p.Priority == "" {
		p.Priority = "medium"
	}
	return ""
}

// Create adds a new project.
func (h *Projects) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProject(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	p.CreatedBy = &user.ID

	created, err := h.projects.Create(r.Context(), &p)
	if err != nil {
		slog.Error("create project", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a project.
func (h *Projects) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var p models.Project
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProject(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.projects.Update(r.Context(), id, &p)
	if err != nil {
		slog.Error("update project", "error", err, "project_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a project.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.projects.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete project", "error", err, "project_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
