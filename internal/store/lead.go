package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// LeadStore handles sales leads.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore creates a new LeadStore with the given database connection.
func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadSelect = `
	SELECT l.id, l.name, l.email, l.phone, l.company, l.source, l.status,
	       l.assigned_to, u1.full_name, l.notes, l.created_by, u2.full_name,
	       l.created_at, l.updated_at
	FROM leads l
	LEFT JOIN users u1 ON l.assigned_to = u1.id
	LEFT JOIN users u2 ON l.created_by = u2.id`

func scanLead(row interface{ Scan(...any) error }) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source, &l.Status,
		&l.AssignedTo, &l.AssignedToName, &l.Notes, &l.CreatedBy, &l.CreatedByName,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// List returns all leads, newest first.
func (s *LeadStore) List(ctx context.Context) ([]models.Lead, error) {
	rows, err := s.db.QueryContext(ctx, leadSelect+` ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

// FindByID retrieves a lead by ID. Returns nil if not found.
func (s *LeadStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	l, err := scanLead(s.db.QueryRowContext(ctx, leadSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return l, nil
}

// Create inserts a new lead.
func (s *LeadStore) Create(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO leads (name, email, phone, company, source, status, assigned_to, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, l.Name, l.Email, l.Phone, l.Company, l.Source, l.Status, l.AssignedTo,
		l.Notes, l.CreatedBy,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return l, nil
}

// Update modifies an existing lead. Returns nil if the lead does not exist.
func (s *LeadStore) Update(ctx context.Context, id uuid.UUID, l *models.Lead) (*models.Lead, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE leads
		SET name = $1, email = $2, phone = $3, company = $4, source = $5,
		    status = $6, assigned_to = $7, notes = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING id, created_by, created_at, updated_at
	`, l.Name, l.Email, l.Phone, l.Company, l.Source, l.Status, l.AssignedTo,
		l.Notes, id,
	).Scan(&l.ID, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return l, nil
}

// Delete removes a lead by ID. Returns false if no row was deleted.
func (s *LeadStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete lead rows affected: %w", err)
	}
	return n > 0, nil
}
