package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// ErrDefaultTemplate is returned when deleting the template currently
// marked as default. Another template must be promoted first.
var ErrDefaultTemplate = errors.New("cannot delete the default template")

// TemplateStore handles quotation presentation templates. At most one
// template is the default; flips happen inside a transaction.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `
	id, name, is_default, company_name, company_tagline, company_address,
	company_phone, company_email, company_website, company_reg_number,
	company_vat_number, logo_url, primary_color, secondary_color, accent_color,
	show_logo, show_tagline, show_client_info, show_description, show_terms,
	show_signature, default_terms, default_notes, vat_rate, created_by,
	created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.QuotationTemplate, error) {
	t := &models.QuotationTemplate{}
	err := row.Scan(
		&t.ID, &t.Name, &t.IsDefault, &t.CompanyName, &t.CompanyTagline,
		&t.CompanyAddress, &t.CompanyPhone, &t.CompanyEmail, &t.CompanyWebsite,
		&t.CompanyRegNo, &t.CompanyVATNo, &t.LogoURL, &t.PrimaryColor,
		&t.SecondaryColor, &t.AccentColor, &t.ShowLogo, &t.ShowTagline,
		&t.ShowClientInfo, &t.ShowDescription, &t.ShowTerms, &t.ShowSignature,
		&t.DefaultTerms, &t.DefaultNotes, &t.VATRate, &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all templates, default first, then newest.
func (s *TemplateStore) List(ctx context.Context) ([]models.QuotationTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateColumns+`
		FROM quotation_templates
		ORDER BY is_default DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.QuotationTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by ID. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.QuotationTemplate, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM quotation_templates WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	return t, nil
}

// FindDefault retrieves the default template. Returns nil when no template
// is marked default.
func (s *TemplateStore) FindDefault(ctx context.Context) (*models.QuotationTemplate, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM quotation_templates WHERE is_default = TRUE LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("find default template: %w", err)
	}
	return t, nil
}

// Create inserts a new template. When the new template is marked default,
// the previous default is demoted in the same transaction.
func (s *TemplateStore) Create(ctx context.Context, t *models.QuotationTemplate) (*models.QuotationTemplate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create template: %w", err)
	}
	defer tx.Rollback()

	if t.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE quotation_templates SET is_default = FALSE, updated_at = NOW() WHERE is_default = TRUE`); err != nil {
			return nil, fmt.Errorf("demote default template: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO quotation_templates (
			name, is_default, company_name, company_tagline, company_address,
			company_phone, company_email, company_website, company_reg_number,
			company_vat_number, logo_url, primary_color, secondary_color,
			accent_color, show_logo, show_tagline, show_client_info,
			show_description, show_terms, show_signature, default_terms,
			default_notes, vat_rate, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id, created_at, updated_at
	`, t.Name, t.IsDefault, t.CompanyName, t.CompanyTagline, t.CompanyAddress,
		t.CompanyPhone, t.CompanyEmail, t.CompanyWebsite, t.CompanyRegNo,
		t.CompanyVATNo, t.LogoURL, t.PrimaryColor, t.SecondaryColor,
		t.AccentColor, t.ShowLogo, t.ShowTagline, t.ShowClientInfo,
		t.ShowDescription, t.ShowTerms, t.ShowSignature, t.DefaultTerms,
		t.DefaultNotes, t.VATRate, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create template: %w", err)
	}
	return t, nil
}

// Update modifies an existing template. Promoting a template to default
// demotes the previous one in the same transaction. Returns nil if the
// template does not exist.
func (s *TemplateStore) Update(ctx context.Context, id uuid.UUID, t *models.QuotationTemplate) (*models.QuotationTemplate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update template: %w", err)
	}
	defer tx.Rollback()

	if t.IsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE quotation_templates SET is_default = FALSE, updated_at = NOW()
			WHERE is_default = TRUE AND id != $1
		`, id); err != nil {
			return nil, fmt.Errorf("demote default template: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE quotation_templates
		SET name = $1, is_default = $2, company_name = $3, company_tagline = $4,
		    company_address = $5, company_phone = $6, company_email = $7,
		    company_website = $8, company_reg_number = $9, company_vat_number = $10,
		    logo_url = $11, primary_color = $12, secondary_color = $13,
		    accent_color = $14, show_logo = $15, show_tagline = $16,
		    show_client_info = $17, show_description = $18, show_terms = $19,
		    show_signature = $20, default_terms = $21, default_notes = $22,
		    vat_rate = $23, updated_at = NOW()
		WHERE id = $24
		RETURNING id, created_by, created_at, updated_at
	`, t.Name, t.IsDefault, t.CompanyName, t.CompanyTagline, t.CompanyAddress,
		t.CompanyPhone, t.CompanyEmail, t.CompanyWebsite, t.CompanyRegNo,
		t.CompanyVATNo, t.LogoURL, t.PrimaryColor, t.SecondaryColor,
		t.AccentColor, t.ShowLogo, t.ShowTagline, t.ShowClientInfo,
		t.ShowDescription, t.ShowTerms, t.ShowSignature, t.DefaultTerms,
		t.DefaultNotes, t.VATRate, id,
	).Scan(&t.ID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update template: %w", err)
	}
	return t, nil
}

// SetLogoURL stores the uploaded logo location for a template. Returns
// false if the template does not exist.
func (s *TemplateStore) SetLogoURL(ctx context.Context, id uuid.UUID, url string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE quotation_templates SET logo_url = $1, updated_at = NOW() WHERE id = $2
	`, url, id)
	if err != nil {
		return false, fmt.Errorf("set template logo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set template logo rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes a template by ID. The default template cannot be deleted;
// ErrDefaultTemplate is returned instead. Returns false if no row matched.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var isDefault bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_default FROM quotation_templates WHERE id = $1`, id).Scan(&isDefault)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete template lookup: %w", err)
	}
	if isDefault {
		return false, ErrDefaultTemplate
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM quotation_templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete template rows affected: %w", err)
	}
	return n > 0, nil
}
