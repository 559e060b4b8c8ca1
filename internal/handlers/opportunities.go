package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Opportunities groups pipeline endpoints.
type Opportunities struct {
	opps *store.OpportunityStore
}

// NewOpportunities creates a new Opportunities handler group.
func NewOpportunities(opps *store.OpportunityStore) *Opportunities {
	return &Opportunities{opps: opps}
}

// List returns all opportunities.
func (h *Opportunities) List(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opps.List(r.Context())
	if err != nil {
		slog.Error("list opportunities", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch opportunities")
		return
	}
	if opps == nil {
		opps = []models.Opportunity{}
	}
	writeJSON(w, http.StatusOK, opps)
}

// Get returns one opportunity.
func (h *Opportunities) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opp, err := h.opps.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get opportunity", "error", err, "opportunity_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch opportunity")
		return
	}
	if opp == nil {
		writeError(w, http.StatusNotFound, "Opportunity not found")
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func validateOpportunity(o *models.Opportunity) string {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		return "Title is required"
	}
	if o.Stage == "" {
		o.Stage = models.StageProspecting
	}
	if !o.Stage.Valid() {
		return "Invalid stage"
	}
	if o.Probability != nil && (*o.Probability < 0 || *o.Probability > 100) {
		return "Probability must be between 0 and 100"
	}
	return ""
}

// Create adds a new opportunity.
func (h *Opportunities) Create(w http.ResponseWriter, r *http.Request) {
	var o models.Opportunity
	if err := decodeJSON(r, &o); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateOpportunity(&o); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	o.CreatedBy = &user.ID

	created, err := h.opps.Create(r.Context(), &o)
	if err != nil {
		slog.Error("create opportunity", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create opportunity")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies an opportunity.
func (h *Opportunities) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var o models.Opportunity
	if err := decodeJSON(r, &o); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateOpportunity(&o); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.opps.Update(r.Context(), id, &o)
	if err != nil {
		slog.Error("update opportunity", "error", err, "opportunity_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update opportunity")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Opportunity not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes an opportunity.
func (h *Opportunities) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.opps.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete opportunity", "error", err, "opportunity_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete opportunity")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Opportunity not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Opportunity deleted successfully"})
}
