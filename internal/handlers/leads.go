package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Leads groups lead endpoints.
type Leads struct {
	leads *store.LeadStore
}

// NewLeads creates a new Leads handler group.
func NewLeads(leads *store.LeadStore) *Leads {
	return &Leads{leads: leads}
}

// List returns all leads.
func (h *Leads) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.List(r.Context())
	if err != nil {
		slog.Error("list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// Get returns one lead.
func (h *Leads) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead, err := h.leads.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get lead", "error", err, "lead_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch lead")
		return
	}
	if lead == nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func validateLead(l *models.Lead) string {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return "Name is required"
	}
	if l.Status == "" {
		l.Status = models.LeadNew
	}
	if !l.Status.Valid() {
		return "Invalid status"
	}
	return ""
}

// Create adds a new lead.
func (h *Leads) Create(w http.ResponseWriter, r *http.Request) {
	var l models.Lead
	if err := decodeJSON(r, &l); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateLead(&l); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	l.CreatedBy = &user.ID

	created, err := h.leads.Create(r.Context(), &l)
	if err != nil {
		slog.Error("create lead", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a lead.
func (h *Leads) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var l models.Lead
	if err := decodeJSON(r, &l); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateLead(&l); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.leads.Update(r.Context(), id, &l)
	if err != nil {
		slog.Error("update lead", "error", err, "lead_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a lead.
func (h *Leads) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.leads.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete lead", "error", err, "lead_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Lead not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lead deleted successfully"})
}
