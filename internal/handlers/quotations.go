package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/pdf"
	"quotedesk/internal/quote"
	"quotedesk/internal/store"
)

// Quotations groups quotation endpoints, including PDF export.
type Quotations struct {
	quotes    *store.QuotationStore
	templates *store.TemplateStore
	renderer  *pdf.Renderer
}

// NewQuotations creates a new Quotations handler group.
func NewQuotations(quotes *store.QuotationStore, templates *store.TemplateStore, renderer *pdf.Renderer) *Quotations {
	return &Quotations{quotes: quotes, templates: templates, renderer: renderer}
}

// List returns quotations, optionally filtered by ?client_id=.
func (h *Quotations) List(w http.ResponseWriter, r *http.Request) {
	var clientID *uuid.UUID
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
		clientID = &id
	}

	quotes, err := h.quotes.List(r.Context(), clientID)
	if err != nil {
		slog.Error("list quotations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch quotations")
		return
	}
	if quotes == nil {
		quotes = []models.Quotation{}
	}
	writeJSON(w, http.StatusOK, quotes)
}

// Get returns one quotation with its template details.
func (h *Quotations) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.quotes.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get quotation", "error", err, "quotation_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch quotation")
		return
	}
	if q == nil {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Quotations) validate(q *models.Quotation) string {
	if q.ClientID == uuid.Nil {
		return "Client is required"
	}
	if err := quote.ValidateItems(q.Items); err != nil {
		return err.Error()
	}
	if q.Status == "" {
		q.Status = models.QuoteDraft
	}
	if !q.Status.Valid() {
		return "Invalid status"
	}
	if q.TaxRate.IsNegative() {
		return "Tax rate cannot be negative"
	}
	if q.Discount.IsNegative() {
		return "Discount cannot be negative"
	}
	return ""
}

// resolveTemplate fills in the default template when none was chosen.
func (h *Quotations) resolveTemplate(r *http.Request, q *models.Quotation) error {
	if q.TemplateID != nil {
		return nil
	}
	def, err := h.templates.FindDefault(r.Context())
	if err != nil {
		return err
	}
	if def != nil {
		q.TemplateID = &def.ID
	}
	return nil
}

// Create adds a quotation. The quote number is minted server-side and the
// money fields are derived from the items; client-supplied totals are
// ignored.
func (h *Quotations) Create(w http.ResponseWriter, r *http.Request) {
	var q models.Quotation
	if err := decodeJSON(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := h.validate(&q); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.resolveTemplate(r, &q); err != nil {
		slog.Error("resolve template", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create quotation")
		return
	}

	user := middleware.UserFromCtx(r.Context())
	q.CreatedBy = &user.ID

	created, err := h.quotes.Create(r.Context(), &q)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Quote number conflict, please retry")
			return
		}
		slog.Error("create quotation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create quotation")
		return
	}

	slog.Info("quotation created", "quotation_id", created.ID, "quote_number", created.QuoteNumber)
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a quotation, recomputing its totals. The quote number
// never changes.
func (h *Quotations) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var q models.Quotation
	if err := decodeJSON(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := h.validate(&q); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.quotes.Update(r.Context(), id, &q)
	if err != nil {
		slog.Error("update quotation", "error", err, "quotation_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update quotation")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a quotation.
func (h *Quotations) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.quotes.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete quotation", "error", err, "quotation_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete quotation")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Quotation deleted successfully"})
}

// PDF resolves the full quotation document, renders it through the
// external script and streams the bytes back as an attachment.
func (h *Quotations) PDF(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.quotes.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("pdf quotation lookup", "error", err, "quotation_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	if q == nil {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}

	pdfBytes, err := h.renderer.Render(r.Context(), q, q.ID.String())
	if err != nil {
		slog.Error("pdf render", "error", err, "quotation_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	filename := pdf.AttachmentFilename(q.QuoteNumber, q.ClientCompany, q.ClientName, q.CreatedAt)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
			filename, url.PathEscape(filename)))
	w.Write(pdfBytes)
}
