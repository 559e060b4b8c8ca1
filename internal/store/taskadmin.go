package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// ErrInUse is returned when deleting a department or subcategory that
// tasks still reference.
var ErrInUse = errors.New("still referenced by tasks")

// TaskAdminStore handles departments and subcategories, the configurable
// groupings of the task board.
type TaskAdminStore struct {
	db *sql.DB
}

// NewTaskAdminStore creates a new TaskAdminStore with the given database connection.
func NewTaskAdminStore(db *sql.DB) *TaskAdminStore {
	return &TaskAdminStore{db: db}
}

// ListDepartments returns all departments with subcategory and task counts.
func (s *TaskAdminStore) ListDepartments(ctx context.Context) ([]models.TaskDepartment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.description, d.is_active, d.created_by,
		       u.full_name, d.created_at,
		       COUNT(DISTINCT sc.id), COUNT(DISTINCT t.id)
		FROM task_departments d
		LEFT JOIN users u ON d.created_by = u.id
		LEFT JOIN task_subcategories sc ON sc.department_id = d.id
		LEFT JOIN tasks t ON t.department_id = d.id
		GROUP BY d.id, u.full_name
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var deps []models.TaskDepartment
	for rows.Next() {
		var d models.TaskDepartment
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.IsActive,
			&d.CreatedBy, &d.CreatedByName, &d.CreatedAt,
			&d.SubcategoryCount, &d.TaskCount); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// CreateDepartment inserts a new department. A duplicate name surfaces as
// a unique violation.
func (s *TaskAdminStore) CreateDepartment(ctx context.Context, d *models.TaskDepartment) (*models.TaskDepartment, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO task_departments (name, description, is_active, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, d.Name, d.Description, d.IsActive, d.CreatedBy).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create department: %w", err)
	}
	return d, nil
}

// UpdateDepartment modifies a department. Returns nil if it does not exist.
func (s *TaskAdminStore) UpdateDepartment(ctx context.Context, id uuid.UUID, d *models.TaskDepartment) (*models.TaskDepartment, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE task_departments
		SET name = $1, description = $2, is_active = $3
		WHERE id = $4
		RETURNING id, created_by, created_at
	`, d.Name, d.Description, d.IsActive, id).Scan(&d.ID, &d.CreatedBy, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update department: %w", err)
	}
	return d, nil
}

// DeleteDepartment removes a department. Deletion is blocked with ErrInUse
// while tasks reference it. Returns false if no row matched.
func (s *TaskAdminStore) DeleteDepartment(ctx context.Context, id uuid.UUID) (bool, error) {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE department_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("department in use: %w", err)
	}
	if inUse {
		return false, ErrInUse
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM task_departments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete department rows affected: %w", err)
	}
	return n > 0, nil
}

// ListSubcategories returns subcategories, optionally for one department.
func (s *TaskAdminStore) ListSubcategories(ctx context.Context, departmentID *uuid.UUID) ([]models.TaskSubcategory, error) {
	query := `
		SELECT sc.id, sc.department_id, d.name, sc.name, sc.description,
		       sc.is_active, sc.created_by, sc.created_at
		FROM task_subcategories sc
		JOIN task_departments d ON sc.department_id = d.id`
	args := []any{}
	if departmentID != nil {
		query += ` WHERE sc.department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY d.name, sc.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var subs []models.TaskSubcategory
	for rows.Next() {
		var sc models.TaskSubcategory
		if err := rows.Scan(&sc.ID, &sc.DepartmentID, &sc.DepartmentName,
			&sc.Name, &sc.Description, &sc.IsActive, &sc.CreatedBy,
			&sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, sc)
	}
	return subs, rows.Err()
}

// CreateSubcategory inserts a subcategory under a department. A duplicate
// name within the department surfaces as a unique violation.
func (s *TaskAdminStore) CreateSubcategory(ctx context.Context, sc *models.TaskSubcategory) (*models.TaskSubcategory, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO task_subcategories (department_id, name, description, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, sc.DepartmentID, sc.Name, sc.Description, sc.IsActive, sc.CreatedBy,
	).Scan(&sc.ID, &sc.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return sc, nil
}

// UpdateSubcategory modifies a subcategory. Returns nil if it does not exist.
func (s *TaskAdminStore) UpdateSubcategory(ctx context.Context, id uuid.UUID, sc *models.TaskSubcategory) (*models.TaskSubcategory, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE task_subcategories
		SET name = $1, description = $2, is_active = $3
		WHERE id = $4
		RETURNING id, department_id, created_by, created_at
	`, sc.Name, sc.Description, sc.IsActive, id,
	).Scan(&sc.ID, &sc.DepartmentID, &sc.CreatedBy, &sc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	return sc, nil
}

// DeleteSubcategory removes a subcategory. Deletion is blocked with
// ErrInUse while tasks reference it. Returns false if no row matched.
func (s *TaskAdminStore) DeleteSubcategory(ctx context.Context, id uuid.UUID) (bool, error) {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE subcategory_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("subcategory in use: %w", err)
	}
	if inUse {
		return false, ErrInUse
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM task_subcategories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete subcategory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete subcategory rows affected: %w", err)
	}
	return n > 0, nil
}
