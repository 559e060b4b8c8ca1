package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Products groups catalog endpoints: products, tags and service units.
type Products struct {
	products *store.ProductStore
}

// NewProducts creates a new Products handler group.
func NewProducts(products *store.ProductStore) *Products {
	return &Products{products: products}
}

// List returns products; ?active_only=true hides deactivated ones.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	products, err := h.products.List(r.Context(), activeOnly)
	if err != nil {
		slog.Error("list products", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns one product.
func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get product", "error", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func validateProduct(p *models.Product) string {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "Name is required"
	}
	if p.Price.IsNegative() {
		return "Price cannot be negative"
	}
	return ""
}

// Create adds a new product. Duplicate SKUs are rejected with 409.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProduct(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	p.CreatedBy = &user.ID
	p.IsActive = true

	created, err := h.products.Create(r.Context(), &p)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "SKU already exists")
			return
		}
		slog.Error("create product", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a product.
func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProduct(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.products.Update(r.Context(), id, &p)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "SKU already exists")
			return
		}
		slog.Error("update product", "error", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a product.
func (h *Products) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.products.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete product", "error", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// ListTags returns all product tags.
func (h *Products) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.products.ListTags(r.Context())
	if err != nil {
		slog.Error("list product tags", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}
	if tags == nil {
		tags = []models.ProductTag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag adds a product tag.
func (h *Products) CreateTag(w http.ResponseWriter, r *http.Request) {
	var t models.ProductTag
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if t.Color == "" {
		t.Color = "#3182ce"
	}

	user := middleware.UserFromCtx(r.Context())
	t.CreatedBy = &user.ID

	created, err := h.products.CreateTag(r.Context(), &t)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Tag already exists")
			return
		}
		slog.Error("create product tag", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create tag")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteTag removes a product tag.
func (h *Products) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.products.DeleteTag(r.Context(), id)
	if err != nil {
		slog.Error("delete product tag", "error", err, "tag_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete tag")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Tag not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted successfully"})
}

// ListUnits returns all service units.
func (h *Products) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.products.ListUnits(r.Context())
	if err != nil {
		slog.Error("list service units", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch units")
		return
	}
	if units == nil {
		units = []models.ServiceUnit{}
	}
	writeJSON(w, http.StatusOK, units)
}

// CreateUnit adds a service unit.
func (h *Products) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var u models.ServiceUnit
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	user := middleware.UserFromCtx(r.Context())
	u.CreatedBy = &user.ID

	created, err := h.products.CreateUnit(r.Context(), &u)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Unit already exists")
			return
		}
		slog.Error("create service unit", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create unit")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteUnit removes a service unit.
func (h *Products) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.products.DeleteUnit(r.Context(), id)
	if err != nil {
		slog.Error("delete service unit", "error", err, "unit_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete unit")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Unit not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Unit deleted successfully"})
}
