package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/storage"
	"quotedesk/internal/store"
)

// maxLogoSize caps template logo uploads.
const maxLogoSize = 5 << 20 // 5 MB

// Templates groups quotation template endpoints.
type Templates struct {
	templates *store.TemplateStore
	storage   *storage.Client
}

// NewTemplates creates a new Templates handler group. storage may be nil;
// logo uploads are then rejected.
func NewTemplates(templates *store.TemplateStore, storage *storage.Client) *Templates {
	return &Templates{templates: templates, storage: storage}
}

// List returns all templates, default first.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		slog.Error("list templates", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	if templates == nil {
		templates = []models.QuotationTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Get returns one template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tpl, err := h.templates.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get template", "error", err, "template_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch template")
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func validateTemplate(t *models.QuotationTemplate) string {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return "Name is required"
	}
	if t.VATRate.IsNegative() {
		return "VAT rate cannot be negative"
	}
	if t.PrimaryColor == "" {
		t.PrimaryColor = "#8B0000"
	}
	if t.SecondaryColor == "" {
		t.SecondaryColor = "#FFFFFF"
	}
	if t.AccentColor == "" {
		t.AccentColor = "#000000"
	}
	if t.VATRate.IsZero() {
		t.VATRate = decimal.NewFromFloat(15.00)
	}
	return ""
}

// Create adds a template. Marking it default demotes the previous default.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	var t models.QuotationTemplate
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplate(&t); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	t.CreatedBy = &user.ID

	created, err := h.templates.Create(r.Context(), &t)
	if err != nil {
		slog.Error("create template", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a template.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var t models.QuotationTemplate
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplate(&t); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.templates.Update(r.Context(), id, &t)
	if err != nil {
		slog.Error("update template", "error", err, "template_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a template. The current default cannot be deleted.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.templates.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrDefaultTemplate) {
			writeError(w, http.StatusBadRequest, "Cannot delete the default template")
			return
		}
		slog.Error("delete template", "error", err, "template_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Template deleted successfully"})
}

// UploadLogo stores a logo image in object storage and saves its public
// URL on the template. Returns 503 when storage is not configured.
func (h *Templates) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "File storage is not configured")
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tpl, err := h.templates.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("upload logo template lookup", "error", err, "template_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to upload logo")
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoSize)
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		writeError(w, http.StatusBadRequest, "Logo file too large or malformed")
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Logo file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/png", "image/jpeg", "image/webp", "image/svg+xml":
	default:
		writeError(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	key := fmt.Sprintf("logos/%s%s", uuid.New(), filepath.Ext(header.Filename))
	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("upload logo", "error", err, "template_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to upload logo")
		return
	}

	// Remove the previous logo if it lives in our bucket.
	if tpl.LogoURL != nil {
		if oldKey, ok := h.storage.ExtractKey(*tpl.LogoURL); ok {
			if err := h.storage.Delete(r.Context(), oldKey); err != nil {
				slog.Warn("delete old logo", "error", err, "key", oldKey)
			}
		}
	}

	logoURL := h.storage.FileURL(key)
	if _, err := h.templates.SetLogoURL(r.Context(), id, logoURL); err != nil {
		slog.Error("save logo url", "error", err, "template_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to upload logo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"logo_url": logoURL})
}
