package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// ContactStore handles contact persons attached to clients.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore with the given database connection.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactSelect = `
	SELECT c.id, c.client_id, c.first_name, c.last_name, c.email, c.phone,
	       c.position, c.department, c.is_primary, c.notes, c.created_by,
	       u.full_name, c.created_at, c.updated_at
	FROM contacts c
	LEFT JOIN users u ON c.created_by = u.id`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(
		&c.ID, &c.ClientID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Position, &c.Department, &c.IsPrimary, &c.Notes, &c.CreatedBy,
		&c.CreatedByName, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByClient returns a client's contacts, primary first.
func (s *ContactStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, contactSelect+`
		WHERE c.client_id = $1
		ORDER BY c.is_primary DESC, c.last_name, c.first_name
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// FindByID retrieves a contact by ID. Returns nil if not found.
func (s *ContactStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx, contactSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return c, nil
}

// Create inserts a new contact for a client.
func (s *ContactStore) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contacts (client_id, first_name, last_name, email, phone,
		                      position, department, is_primary, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, c.ClientID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Position, c.Department, c.IsPrimary, c.Notes, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

// Update modifies an existing contact. Returns nil if the contact does not exist.
func (s *ContactStore) Update(ctx context.Context, id uuid.UUID, c *models.Contact) (*models.Contact, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
		    position = $5, department = $6, is_primary = $7, notes = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING id, client_id, created_by, created_at, updated_at
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Position, c.Department,
		c.IsPrimary, c.Notes, id,
	).Scan(&c.ID, &c.ClientID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return c, nil
}

// SetPrimary promotes a contact to be its client's primary contact. The
// previous primary is demoted in the same transaction so the client never
// has two primaries, even under concurrent promotions. Returns nil if the
// contact does not exist.
func (s *ContactStore) SetPrimary(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin set primary: %w", err)
	}
	defer tx.Rollback()

	var clientID uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT client_id FROM contacts WHERE id = $1 FOR UPDATE`, id).Scan(&clientID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set primary lookup: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE contacts SET is_primary = FALSE, updated_at = NOW()
		WHERE client_id = $1 AND is_primary = TRUE AND id != $2
	`, clientID, id); err != nil {
		return nil, fmt.Errorf("demote primary: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE contacts SET is_primary = TRUE, updated_at = NOW() WHERE id = $1
	`, id); err != nil {
		return nil, fmt.Errorf("promote primary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit set primary: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Delete removes a contact by ID. Returns false if no row was deleted.
func (s *ContactStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete contact rows affected: %w", err)
	}
	return n > 0, nil
}
