package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// ProductStore handles the product catalog plus its tags and service units.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.sku, p.price, p.cost, p.category,
	       p.unit, p.is_active, p.created_by, u.full_name,
	       p.created_at, p.updated_at
	FROM products p
	LEFT JOIN users u ON p.created_by = u.id`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.Cost, &p.Category,
		&p.Unit, &p.IsActive, &p.CreatedBy, &p.CreatedByName,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns products ordered by name, optionally only active ones.
func (s *ProductStore) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := productSelect
	if activeOnly {
		query += ` WHERE p.is_active`
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// Create inserts a new product. A duplicate SKU surfaces as a unique
// violation; callers check with IsUniqueViolation.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, sku, price, cost, category, unit, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.SKU, p.Price, p.Cost, p.Category, p.Unit,
		p.IsActive, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Update modifies an existing product. Returns nil if it does not exist.
func (s *ProductStore) Update(ctx context.Context, id uuid.UUID, p *models.Product) (*models.Product, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, sku = $3, price = $4, cost = $5,
		    category = $6, unit = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING id, created_by, created_at, updated_at
	`, p.Name, p.Description, p.SKU, p.Price, p.Cost, p.Category, p.Unit,
		p.IsActive, id,
	).Scan(&p.ID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete removes a product by ID. Returns false if no row was deleted.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product rows affected: %w", err)
	}
	return n > 0, nil
}

// ListTags returns all product tags ordered by name.
func (s *ProductStore) ListTags(ctx context.Context) ([]models.ProductTag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, created_by, created_at
		FROM product_tags ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list product tags: %w", err)
	}
	defer rows.Close()

	var tags []models.ProductTag
	for rows.Next() {
		var t models.ProductTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a new product tag.
func (s *ProductStore) CreateTag(ctx context.Context, t *models.ProductTag) (*models.ProductTag, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO product_tags (name, color, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, t.Name, t.Color, t.CreatedBy).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create product tag: %w", err)
	}
	return t, nil
}

// DeleteTag removes a product tag by ID. Returns false if no row was deleted.
func (s *ProductStore) DeleteTag(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM product_tags WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product tag rows affected: %w", err)
	}
	return n > 0, nil
}

// ListUnits returns all service units ordered by name.
func (s *ProductStore) ListUnits(ctx context.Context) ([]models.ServiceUnit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, abbreviation, created_by, created_at
		FROM service_units ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list service units: %w", err)
	}
	defer rows.Close()

	var units []models.ServiceUnit
	for rows.Next() {
		var u models.ServiceUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.CreatedBy, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// CreateUnit inserts a new service unit.
func (s *ProductStore) CreateUnit(ctx context.Context, u *models.ServiceUnit) (*models.ServiceUnit, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO service_units (name, abbreviation, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Name, u.Abbreviation, u.CreatedBy).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create service unit: %w", err)
	}
	return u, nil
}

// DeleteUnit removes a service unit by ID. Returns false if no row was deleted.
func (s *ProductStore) DeleteUnit(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM service_units WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete service unit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete service unit rows affected: %w", err)
	}
	return n > 0, nil
}
