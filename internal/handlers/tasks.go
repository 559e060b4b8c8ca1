package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/cache"
	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Tasks groups task endpoints, including team member management and the
// stats overview. Writes invalidate the analytics report cache.
type Tasks struct {
	tasks   *store.TaskStore
	reports *cache.ReportCache
}

// NewTasks creates a new Tasks handler group.
func NewTasks(tasks *store.TaskStore, reports *cache.ReportCache) *Tasks {
	return &Tasks{tasks: tasks, reports: reports}
}

// parseFilters reads the supported query parameters into store filters.
func parseFilters(r *http.Request) (store.TaskFilters, error) {
	q := r.URL.Query()
	f := store.TaskFilters{
		Status:   models.TaskStatus(q.Get("status")),
		Priority: models.TaskPriority(q.Get("priority")),
		Overdue:  q.Get("overdue") == "true",
	}

	parseUUID := func(name string) (*uuid.UUID, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	if raw := q.Get("project_id"); raw == "adhoc" {
		f.ProjectAdhoc = true
	} else if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, err
		}
		f.ProjectID = &id
	}

	var err error
	if f.DepartmentID, err = parseUUID("department_id"); err != nil {
		return f, err
	}
	if f.CreatedBy, err = parseUUID("created_by"); err != nil {
		return f, err
	}
	if f.AssignedTo, err = parseUUID("assigned_to"); err != nil {
		return f, err
	}
	return f, nil
}

// List returns tasks matching the query filters.
func (h *Tasks) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter id")
		return
	}

	tasks, err := h.tasks.List(r.Context(), f)
	if err != nil {
		slog.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Get returns one task with its team members.
func (h *Tasks) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get task", "error", err, "task_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type taskRequest struct {
	models.Task
	TeamMemberIDs []uuid.UUID `json:"team_member_ids"`
}

func (req *taskRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "Title is required"
	}
	if !req.Priority.Valid() {
		return "Priority must be P1-P5"
	}
	if req.Status == "" {
		req.Status = models.TaskPending
	}
	if !req.Status.Valid() {
		return "Invalid status"
	}
	return ""
}

// Create adds a task with its initial team member set.
func (h *Tasks) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	req.Task.CreatedBy = &user.ID

	created, err := h.tasks.Create(r.Context(), &req.Task, req.TeamMemberIDs)
	if err != nil {
		slog.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	h.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a task, replacing the team member set when one is sent.
func (h *Tasks) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.tasks.Update(r.Context(), id, &req.Task, req.TeamMemberIDs)
	if err != nil {
		slog.Error("update task", "error", err, "task_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	h.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a task.
func (h *Tasks) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.tasks.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete task", "error", err, "task_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	h.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

type memberRequest struct {
	UserID uuid.UUID       `json:"user_id"`
	Hours  decimal.Decimal `json:"hours"`
}

// AddMember assigns a user to a task, accumulating hours on repeat calls.
func (h *Tasks) AddMember(w http.ResponseWriter, r *http.Request) {
	taskID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Hours.IsNegative() {
		writeError(w, http.StatusBadRequest, "Hours cannot be negative")
		return
	}

	if err := h.tasks.AddMember(r.Context(), taskID, req.UserID, req.Hours); err != nil {
		slog.Error("add task member", "error", err, "task_id", taskID)
		writeError(w, http.StatusInternalServerError, "Failed to add team member")
		return
	}

	h.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team member added"})
}

// SetMemberHours replaces a member's logged hours.
func (h *Tasks) SetMemberHours(w http.ResponseWriter, r *http.Request) {
	taskID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := urlID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Hours decimal.Decimal `json:"hours"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Hours.IsNegative() {
		writeError(w, http.StatusBadRequest, "Hours cannot be negative")
		return
	}

	ok, err := h.tasks.SetMemberHours(r.Context(), taskID, userID, req.Hours)
	if err != nil {
		slog.Error("set member hours", "error", err, "task_id", taskID, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to update hours")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Team member not found")
		return
	}

	h.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hours updated"})
}

// RemoveMember unassigns a user from a task.
func (h *Tasks) RemoveMember(w http.ResponseWriter, r *http.Request) {
	taskID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := urlID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.tasks.RemoveMember(r.Context(), taskID, userID)
	if err != nil {
		slog.Error("remove task member", "error", err, "task_id", taskID, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to remove team member")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Team member not found")
		return
	}

	h.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team member removed"})
}

// Stats returns the task board overview counters.
func (h *Tasks) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.Stats(r.Context())
	if err != nil {
		slog.Error("task stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
