package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// ClientStore handles client records.
type ClientStore struct {
	db *sql.DB
}

// NewClientStore creates a new ClientStore with the given database connection.
func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

const clientSelect = `
	SELECT c.id, c.name, c.email, c.phone, c.company, c.address, c.city,
	       c.country, c.tax_number, c.notes, c.created_by, u.full_name,
	       c.created_at, c.updated_at
	FROM clients c
	LEFT JOIN users u ON c.created_by = u.id`

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	c := &models.Client{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.City,
		&c.Country, &c.TaxNumber, &c.Notes, &c.CreatedBy, &c.CreatedByName,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all clients, newest first, with the creator's name joined in.
func (s *ClientStore) List(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, clientSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// FindByID retrieves a client by ID. Returns nil if not found.
func (s *ClientStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx, clientSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return c, nil
}

// Create inserts a new client.
func (s *ClientStore) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO clients (name, email, phone, company, address, city, country, tax_number, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Company, c.Address, c.City, c.Country,
		c.TaxNumber, c.Notes, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// Update modifies an existing client. Returns nil if the client does not exist.
func (s *ClientStore) Update(ctx context.Context, id uuid.UUID, c *models.Client) (*models.Client, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, company = $4, address = $5,
		    city = $6, country = $7, tax_number = $8, notes = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING id, created_by, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Company, c.Address, c.City, c.Country,
		c.TaxNumber, c.Notes, id,
	).Scan(&c.ID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

// Delete removes a client by ID. Returns false if no row was deleted.
func (s *ClientStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete client rows affected: %w", err)
	}
	return n > 0, nil
}

// Exists reports whether a client with the given ID exists.
func (s *ClientStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("client exists: %w", err)
	}
	return exists, nil
}
