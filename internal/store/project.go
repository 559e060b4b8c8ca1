package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"quotedesk/internal/models"
)

// ProjectStore handles projects and their task aggregates.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectSelect = `
	SELECT p.id, p.name, p.description, p.client_id, c.name, c.company,
	       p.status, p.priority, p.start_date, p.due_date, p.budget,
	       p.project_manager_id, pm.full_name, p.created_by, u.full_name,
	       p.created_at, p.updated_at,
	       COUNT(t.id), COUNT(t.id) FILTER (WHERE t.status = 'closed'),
	       COALESCE(SUM(t.total_hours), 0)
	FROM projects p
	LEFT JOIN clients c ON p.client_id = c.id
	LEFT JOIN users pm ON p.project_manager_id = pm.id
	LEFT JOIN users u ON p.created_by = u.id
	LEFT JOIN tasks t ON t.project_id = p.id
	GROUP BY p.id, c.name, c.company, pm.full_name, u.full_name`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ClientID, &p.ClientName,
		&p.ClientCompany, &p.Status, &p.Priority, &p.StartDate, &p.DueDate,
		&p.Budget, &p.ProjectManagerID, &p.ProjectManagerName, &p.CreatedBy,
		&p.CreatedByName, &p.CreatedAt, &p.UpdatedAt,
		&p.TaskCount, &p.CompletedTasks, &p.TotalHours,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all projects with task counts and summed hours, newest first.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, projectSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// FindByID retrieves a project by ID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, projectSelect+` HAVING p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

// Create inserts a new project.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (name, description, client_id, status, priority,
		                      start_date, due_date, budget, project_manager_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.ClientID, p.Status, p.Priority, p.StartDate,
		p.DueDate, p.Budget, p.ProjectManagerID, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// Update modifies an existing project. Returns nil if it does not exist.
func (s *ProjectStore) Update(ctx context.Context, id uuid.UUID, p *models.Project) (*models.Project, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE projects
		SET name = $1, description = $2, client_id = $3, status = $4,
		    priority = $5, start_date = $6, due_date = $7, budget = $8,
		    project_manager_id = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING id, created_by, created_at, updated_at
	`, p.Name, p.Description, p.ClientID, p.Status, p.Priority, p.StartDate,
		p.DueDate, p.Budget, p.ProjectManagerID, id,
	).Scan(&p.ID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// Delete removes a project by ID. Returns false if no row was deleted.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete project rows affected: %w", err)
	}
	return n > 0, nil
}
