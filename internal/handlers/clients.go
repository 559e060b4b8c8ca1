package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
)

// Clients groups client and contact endpoints.
type Clients struct {
	clients  *store.ClientStore
	contacts *store.ContactStore
}

// NewClients creates a new Clients handler group.
func NewClients(clients *store.ClientStore, contacts *store.ContactStore) *Clients {
	return &Clients{clients: clients, contacts: contacts}
}

// List returns all clients.
func (h *Clients) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		slog.Error("list clients", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

// Get returns one client.
func (h *Clients) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := h.clients.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("get client", "error", err, "client_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// Create adds a new client.
func (h *Clients) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	user := middleware.UserFromCtx(r.Context())
	c.CreatedBy = &user.ID

	created, err := h.clients.Create(r.Context(), &c)
	if err != nil {
		slog.Error("create client", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a client.
func (h *Clients) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var c models.Client
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	updated, err := h.clients.Update(r.Context(), id, &c)
	if err != nil {
		slog.Error("update client", "error", err, "client_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update client")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a client.
func (h *Clients) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.clients.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete client", "error", err, "client_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Client deleted successfully"})
}

// ListContacts returns a client's contacts, primary first.
func (h *Clients) ListContacts(w http.ResponseWriter, r *http.Request) {
	clientID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contacts, err := h.contacts.ListByClient(r.Context(), clientID)
	if err != nil {
		slog.Error("list contacts", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// CreateContact adds a contact to a client.
func (h *Clients) CreateContact(w http.ResponseWriter, r *http.Request) {
	clientID, err := urlID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.clients.Exists(r.Context(), clientID)
	if err != nil {
		slog.Error("create contact client lookup", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "Failed to create contact")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}

	var c models.Contact
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.FirstName == "" || c.LastName == "" {
		writeError(w, http.StatusBadRequest, "First and last name are required")
		return
	}

	user := middleware.UserFromCtx(r.Context())
	c.ClientID = clientID
	c.CreatedBy = &user.ID

	created, err := h.contacts.Create(r.Context(), &c)
	if err != nil {
		slog.Error("create contact", "error", err, "client_id", clientID)
		writeError(w, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	if created.IsPrimary {
		// Creation marked this contact primary; demote any others.
		if _, err := h.contacts.SetPrimary(r.Context(), created.ID); err != nil {
			slog.Error("set primary after create", "error", err, "contact_id", created.ID)
		}
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateContact modifies a contact.
func (h *Clients) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var c models.Contact
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	if c.FirstName == "" || c.LastName == "" {
		writeError(w, http.StatusBadRequest, "First and last name are required")
		return
	}

	updated, err := h.contacts.Update(r.Context(), id, &c)
	if err != nil {
		slog.Error("update contact", "error", err, "contact_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	if updated.IsPrimary {
		if updated, err = h.contacts.SetPrimary(r.Context(), id); err != nil {
			slog.Error("set primary after update", "error", err, "contact_id", id)
			writeError(w, http.StatusInternalServerError, "Failed to update contact")
			return
		}
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetPrimaryContact promotes a contact to primary for its client.
func (h *Clients) SetPrimaryContact(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contacts.SetPrimary(r.Context(), id)
	if err != nil {
		slog.Error("set primary contact", "error", err, "contact_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}
	if contact == nil {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// DeleteContact removes a contact.
func (h *Clients) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "contactID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.contacts.Delete(r.Context(), id)
	if err != nil {
		slog.Error("delete contact", "error", err, "contact_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted successfully"})
}
