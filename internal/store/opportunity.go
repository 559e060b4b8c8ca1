package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// OpportunityStore handles pipeline opportunities.
type OpportunityStore struct {
	db *sql.DB
}

// NewOpportunityStore creates a new OpportunityStore with the given database connection.
func NewOpportunityStore(db *sql.DB) *OpportunityStore {
	return &OpportunityStore{db: db}
}

const opportunitySelect = `
	SELECT o.id, o.title, o.client_id, c.name, o.lead_id, l.name, o.value,
	       o.stage, o.probability, o.expected_close_date, o.assigned_to,
	       u1.full_name, o.notes, o.created_by, u2.full_name,
	       o.created_at, o.updated_at
	FROM opportunities o
	LEFT JOIN clients c ON o.client_id = c.id
	LEFT JOIN leads l ON o.lead_id = l.id
	LEFT JOIN users u1 ON o.assigned_to = u1.id
	LEFT JOIN users u2 ON o.created_by = u2.id`

func scanOpportunity(row interface{ Scan(...any) error }) (*models.Opportunity, error) {
	o := &models.Opportunity{}
	err := row.Scan(
		&o.ID, &o.Title, &o.ClientID, &o.ClientName, &o.LeadID, &o.LeadName,
		&o.Value, &o.Stage, &o.Probability, &o.ExpectedCloseDate, &o.AssignedTo,
		&o.AssignedToName, &o.Notes, &o.CreatedBy, &o.CreatedByName,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// List returns all opportunities, newest first.
func (s *OpportunityStore) List(ctx context.Context) ([]models.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, opportunitySelect+` ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opps = append(opps, *o)
	}
	return opps, rows.Err()
}

// FindByID retrieves an opportunity by ID. Returns nil if not found.
func (s *OpportunityStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	o, err := scanOpportunity(s.db.QueryRowContext(ctx, opportunitySelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find opportunity: %w", err)
	}
	return o, nil
}

// Create inserts a new opportunity.
func (s *OpportunityStore) Create(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO opportunities (title, client_id, lead_id, value, stage, probability,
		                           expected_close_date, assigned_to, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, o.Title, o.ClientID, o.LeadID, o.Value, o.Stage, o.Probability,
		o.ExpectedCloseDate, o.AssignedTo, o.Notes, o.CreatedBy,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}
	return o, nil
}

// Update modifies an existing opportunity. Returns nil if it does not exist.
func (s *OpportunityStore) Update(ctx context.Context, id uuid.UUID, o *models.Opportunity) (*models.Opportunity, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE opportunities
		SET title = $1, client_id = $2, lead_id = $3, value = $4, stage = $5,
		    probability = $6, expected_close_date = $7, assigned_to = $8,
		    notes = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING id, created_by, created_at, updated_at
	`, o.Title, o.ClientID, o.LeadID, o.Value, o.Stage, o.Probability,
		o.ExpectedCloseDate, o.AssignedTo, o.Notes, id,
	).Scan(&o.ID, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update opportunity: %w", err)
	}
	return o, nil
}

// Delete removes an opportunity by ID. Returns false if no row was deleted.
func (s *OpportunityStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete opportunity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete opportunity rows affected: %w", err)
	}
	return n > 0, nil
}
