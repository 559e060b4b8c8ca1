package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"quotedesk/internal/cache"
	"quotedesk/internal/store"
)

// Analytics groups the task reporting endpoints. Overview results are
// cached briefly in Valkey, keyed by the filter set.
type Analytics struct {
	analytics *store.AnalyticsStore
	reports   *cache.ReportCache
}

// NewAnalytics creates a new Analytics handler group.
func NewAnalytics(analytics *store.AnalyticsStore, reports *cache.ReportCache) *Analytics {
	return &Analytics{analytics: analytics, reports: reports}
}

// Overview returns the aggregated task report. Filters: ?user_id=,
// ?date_from=, ?date_to= (YYYY-MM-DD).
func (h *Analytics) Overview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f store.AnalyticsFilters

	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		f.UserID = &id
	}
	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date_from")
			return
		}
		f.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date_to")
			return
		}
		// Inclusive end of day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &t
	}

	key := overviewKey(f)
	var cached store.Overview
	if h.reports.Get(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, &cached)
		return
	}

	overview, err := h.analytics.Overview(r.Context(), f)
	if err != nil {
		slog.Error("analytics overview", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}

	h.reports.Set(r.Context(), key, overview)
	writeJSON(w, http.StatusOK, overview)
}

// overviewKey derives the cache key from the filter set.
func overviewKey(f store.AnalyticsFilters) string {
	user := "all"
	if f.UserID != nil {
		user = f.UserID.String()
	}
	from, to := "", ""
	if f.DateFrom != nil {
		from = f.DateFrom.Format("2006-01-02")
	}
	if f.DateTo != nil {
		to = f.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("overview:%s:%s:%s", user, from, to)
}

// Users returns the distinct task creators for filter dropdowns.
func (h *Analytics) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.analytics.Users(r.Context())
	if err != nil {
		slog.Error("analytics users", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}
