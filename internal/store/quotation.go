package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quotedesk/internal/models"
	"quotedesk/internal/quote"
)

// timeNow is swapped in tests to pin the numbering scope.
var timeNow = time.Now

// QuotationStore handles quotations. Quote numbers are minted inside the
// insert transaction; the unique index on quote_number is the backstop
// against concurrent minting.
type QuotationStore struct {
	db     *sql.DB
	scheme quote.Scheme
}

// NewQuotationStore creates a new QuotationStore using the given numbering
// scheme.
func NewQuotationStore(db *sql.DB, scheme quote.Scheme) *QuotationStore {
	return &QuotationStore{db: db, scheme: scheme}
}

const quotationSelect = `
	SELECT q.id, q.quote_number, q.client_id, q.opportunity_id, q.template_id,
	       q.status, q.valid_until, q.subtotal, q.tax_rate, q.tax_amount,
	       q.discount, q.total, q.items, q.notes, q.terms, q.description,
	       q.prepared_by, q.created_by, q.created_at, q.updated_at,
	       c.name, c.email, c.phone, c.company, c.address, c.city, c.country,
	       pc.first_name || ' ' || pc.last_name, pc.email, pc.phone, pc.position,
	       o.title, u.full_name, t.name
	FROM quotations q
	JOIN clients c ON q.client_id = c.id
	LEFT JOIN contacts pc ON pc.client_id = c.id AND pc.is_primary = TRUE
	LEFT JOIN opportunities o ON q.opportunity_id = o.id
	LEFT JOIN users u ON q.created_by = u.id
	LEFT JOIN quotation_templates t ON q.template_id = t.id`

func scanQuotation(row interface{ Scan(...any) error }) (*models.Quotation, error) {
	q := &models.Quotation{}
	var items []byte
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.ClientID, &q.OpportunityID, &q.TemplateID,
		&q.Status, &q.ValidUntil, &q.Subtotal, &q.TaxRate, &q.TaxAmount,
		&q.Discount, &q.Total, &items, &q.Notes, &q.Terms, &q.Description,
		&q.PreparedBy, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
		&q.ClientName, &q.ClientEmail, &q.ClientPhone, &q.ClientCompany,
		&q.ClientAddress, &q.ClientCity, &q.ClientCountry,
		&q.PrimaryContactName, &q.PrimaryContactEmail, &q.PrimaryContactPhone,
		&q.ContactPosition, &q.OpportunityTitle, &q.CreatedByName, &q.TemplateName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return q, nil
}

// List returns quotations newest first, optionally filtered by client.
func (s *QuotationStore) List(ctx context.Context, clientID *uuid.UUID) ([]models.Quotation, error) {
	query := quotationSelect
	args := []any{}
	if clientID != nil {
		query += ` WHERE q.client_id = $1`
		args = append(args, *clientID)
	}
	query += ` ORDER BY q.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var quotes []models.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

// FindByID retrieves a quotation with its client, primary contact and
// template details joined in. Returns nil if not found.
func (s *QuotationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	q, err := scanQuotation(s.db.QueryRowContext(ctx, quotationSelect+` WHERE q.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find quotation: %w", err)
	}
	if q == nil {
		return nil, nil
	}

	if q.TemplateID != nil {
		t, err := scanTemplate(s.db.QueryRowContext(ctx,
			`SELECT `+templateColumns+` FROM quotation_templates WHERE id = $1`, *q.TemplateID))
		if err != nil {
			return nil, fmt.Errorf("find quotation template: %w", err)
		}
		q.Template = t
	}
	return q, nil
}

// Create inserts a quotation. The number is minted and the money fields
// are derived inside a single transaction: the scope's greatest existing
// number is looked up, incremented, and the insert either commits with it
// or fails on the unique index when a concurrent mint won the race.
func (s *QuotationStore) Create(ctx context.Context, q *models.Quotation) (*models.Quotation, error) {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	totals := quote.ComputeTotals(q.Items, q.TaxRate, q.Discount).Rounded()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create quotation: %w", err)
	}
	defer tx.Rollback()

	prefix := s.scheme.Prefix(timeNow())
	var last string
	err = tx.QueryRowContext(ctx, `
		SELECT quote_number FROM quotations
		WHERE quote_number LIKE $1 || '%'
		ORDER BY quote_number DESC
		LIMIT 1
	`, prefix).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("find last quote number: %w", err)
	}

	number, err := s.scheme.Next(prefix, last)
	if err != nil {
		return nil, fmt.Errorf("mint quote number: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO quotations (quote_number, client_id, opportunity_id, template_id,
		                        status, valid_until, subtotal, tax_rate, tax_amount,
		                        discount, total, items, notes, terms, description,
		                        prepared_by, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, quote_number, subtotal, tax_amount, discount, total, created_at, updated_at
	`, number, q.ClientID, q.OpportunityID, q.TemplateID, q.Status, q.ValidUntil,
		totals.Subtotal, q.TaxRate, totals.TaxAmount, totals.Discount, totals.Total,
		items, q.Notes, q.Terms, q.Description, q.PreparedBy, q.CreatedBy,
	).Scan(&q.ID, &q.QuoteNumber, &q.Subtotal, &q.TaxAmount, &q.Discount,
		&q.Total, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create quotation: %w", err)
	}
	return q, nil
}

// Update modifies a quotation. The quote number is immutable; the money
// fields are recomputed from the submitted items, tax rate and discount.
// Returns nil if the quotation does not exist.
func (s *QuotationStore) Update(ctx context.Context, id uuid.UUID, q *models.Quotation) (*models.Quotation, error) {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	totals := quote.ComputeTotals(q.Items, q.TaxRate, q.Discount).Rounded()

	err = s.db.QueryRowContext(ctx, `
		UPDATE quotations
		SET client_id = $1, opportunity_id = $2, template_id = $3, status = $4,
		    valid_until = $5, subtotal = $6, tax_rate = $7, tax_amount = $8,
		    discount = $9, total = $10, items = $11, notes = $12, terms = $13,
		    description = $14, prepared_by = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING id, quote_number, subtotal, tax_amount, discount, total,
		          created_by, created_at, updated_at
	`, q.ClientID, q.OpportunityID, q.TemplateID, q.Status, q.ValidUntil,
		totals.Subtotal, q.TaxRate, totals.TaxAmount, totals.Discount,
		totals.Total, items, q.Notes, q.Terms, q.Description, q.PreparedBy, id,
	).Scan(&q.ID, &q.QuoteNumber, &q.Subtotal, &q.TaxAmount, &q.Discount,
		&q.Total, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return q, nil
}

// UpdateStatus changes only the document status. Returns nil if the
// quotation does not exist.
func (s *QuotationStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.QuotationStatus) (*models.Quotation, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, fmt.Errorf("update quotation status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update quotation status rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, id)
}

// Delete removes a quotation by ID. Returns false if no row was deleted.
func (s *QuotationStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete quotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete quotation rows affected: %w", err)
	}
	return n > 0, nil
}
