package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/models"
)

// TaskStore handles tasks and their team member assignments.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new TaskStore with the given database connection.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// TaskFilters narrows task listings. Zero values mean "no filter".
// ProjectAdhoc selects tasks with no project; Overdue keeps only tasks
// whose derived overdue flag is set.
type TaskFilters struct {
	Status       models.TaskStatus
	Priority     models.TaskPriority
	ProjectID    *uuid.UUID
	ProjectAdhoc bool
	DepartmentID *uuid.UUID
	CreatedBy    *uuid.UUID
	AssignedTo   *uuid.UUID
	Overdue      bool
}

// taskOverdueExpr derives the overdue flag in SQL: closed tasks compare
// their close date to the due date, open tasks compare today to it.
const taskOverdueExpr = `
	CASE
		WHEN t.due_date IS NULL THEN FALSE
		WHEN t.status = 'closed' THEN COALESCE(t.close_date, CURRENT_DATE) > t.due_date
		ELSE CURRENT_DATE > t.due_date
	END`

const taskSelect = `
	SELECT t.id, t.title, t.description, t.ticket_number, t.ticket_url,
	       t.priority, t.department_id, d.name, t.subcategory_id, sc.name,
	       t.project_id, p.name, t.client_id, c.name, t.status,
	       t.start_date, t.due_date, t.close_date, t.total_hours,
	       ` + taskOverdueExpr + `,
	       t.created_by, u.full_name, t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN task_departments d ON t.department_id = d.id
	LEFT JOIN task_subcategories sc ON t.subcategory_id = sc.id
	LEFT JOIN projects p ON t.project_id = p.id
	LEFT JOIN clients c ON t.client_id = c.id
	LEFT JOIN users u ON t.created_by = u.id`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.TicketNumber, &t.TicketURL,
		&t.Priority, &t.DepartmentID, &t.DepartmentName, &t.SubcategoryID,
		&t.SubcategoryName, &t.ProjectID, &t.ProjectName, &t.ClientID,
		&t.ClientName, &t.Status, &t.StartDate, &t.DueDate, &t.CloseDate,
		&t.TotalHours, &t.IsOverdue, &t.CreatedBy, &t.CreatedByName,
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

// List returns tasks matching the filters, ordered by priority, then due
// date, then creation time. Team members are loaded in one batch query.
func (s *TaskStore) List(ctx context.Context, f TaskFilters) ([]models.Task, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "t.status = "+arg(f.Status))
	}
	if f.Priority != "" {
		conds = append(conds, "t.priority = "+arg(f.Priority))
	}
	if f.ProjectAdhoc {
		conds = append(conds, "t.project_id IS NULL")
	} else if f.ProjectID != nil {
		conds = append(conds, "t.project_id = "+arg(*f.ProjectID))
	}
	if f.DepartmentID != nil {
		conds = append(conds, "t.department_id = "+arg(*f.DepartmentID))
	}
	if f.CreatedBy != nil {
		conds = append(conds, "t.created_by = "+arg(*f.CreatedBy))
	}
	if f.AssignedTo != nil {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM task_team_members tm
			WHERE tm.task_id = t.id AND tm.user_id = `+arg(*f.AssignedTo)+`
		)`)
	}
	if f.Overdue {
		conds = append(conds, taskOverdueExpr)
	}

	query := taskSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY t.priority, t.due_date NULLS LAST, t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachMembers(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachMembers fills TeamMembers for every task in one query.
func (s *TaskStore) attachMembers(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(tasks))
	index := make(map[uuid.UUID]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		index[t.ID] = i
		tasks[i].TeamMembers = []models.TaskMember{}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tm.task_id, tm.id, tm.user_id, u.full_name, u.email,
		       tm.hours_worked, tm.added_at
		FROM task_team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.task_id = ANY($1)
		ORDER BY tm.added_at
	`, ids)
	if err != nil {
		return fmt.Errorf("list task members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID uuid.UUID
		var m models.TaskMember
		if err := rows.Scan(&taskID, &m.ID, &m.UserID, &m.FullName, &m.Email,
			&m.HoursWorked, &m.AddedAt); err != nil {
			return fmt.Errorf("scan task member: %w", err)
		}
		i := index[taskID]
		tasks[i].TeamMembers = append(tasks[i].TeamMembers, m)
	}
	return rows.Err()
}

// FindByID retrieves a task with its team members. Returns nil if not found.
func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if t == nil {
		return nil, nil
	}

	one := []models.Task{*t}
	if err := s.attachMembers(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Create inserts a task and its team member set in one transaction.
func (s *TaskStore) Create(ctx context.Context, t *models.Task, memberIDs []uuid.UUID) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create task: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, ticket_number, ticket_url, priority,
		                   department_id, subcategory_id, project_id, client_id,
		                   status, start_date, due_date, close_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, t.Title, t.Description, t.TicketNumber, t.TicketURL, t.Priority,
		t.DepartmentID, t.SubcategoryID, t.ProjectID, t.ClientID, t.Status,
		t.StartDate, t.DueDate, t.CloseDate, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	for _, userID := range memberIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_team_members (task_id, user_id) VALUES ($1, $2)
			ON CONFLICT (task_id, user_id) DO NOTHING
		`, t.ID, userID); err != nil {
			return nil, fmt.Errorf("add task member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create task: %w", err)
	}
	return s.FindByID(ctx, t.ID)
}

// Update modifies a task and, when memberIDs is non-nil, replaces its team
// member set in the same transaction. Hours already logged by members who
// stay assigned are kept. Returns nil if the task does not exist.
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, t *models.Task, memberIDs []uuid.UUID) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update task: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, ticket_number = $3, ticket_url = $4,
		    priority = $5, department_id = $6, subcategory_id = $7,
		    project_id = $8, client_id = $9, status = $10, start_date = $11,
		    due_date = $12, close_date = $13, updated_at = NOW()
		WHERE id = $14
		RETURNING id
	`, t.Title, t.Description, t.TicketNumber, t.TicketURL, t.Priority,
		t.DepartmentID, t.SubcategoryID, t.ProjectID, t.ClientID, t.Status,
		t.StartDate, t.DueDate, t.CloseDate, id,
	).Scan(&t.ID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if memberIDs != nil {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM task_team_members
			WHERE task_id = $1 AND user_id != ALL($2)
		`, id, memberIDs); err != nil {
			return nil, fmt.Errorf("remove task members: %w", err)
		}
		for _, userID := range memberIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO task_team_members (task_id, user_id) VALUES ($1, $2)
				ON CONFLICT (task_id, user_id) DO NOTHING
			`, id, userID); err != nil {
				return nil, fmt.Errorf("add task member: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update task: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a task by ID. Returns false if no row was deleted.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task rows affected: %w", err)
	}
	return n > 0, nil
}

// AddMember assigns a user to a task, accumulating hours when the user is
// already assigned. The task's total_hours is refreshed afterwards.
func (s *TaskStore) AddMember(ctx context.Context, taskID, userID uuid.UUID, hours decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add member: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO task_team_members (task_id, user_id, hours_worked)
		VALUES ($1, $2, $3)
		ON CONFLICT (task_id, user_id)
		DO UPDATE SET hours_worked = task_team_members.hours_worked + EXCLUDED.hours_worked
	`, taskID, userID, hours); err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	if err := refreshTaskHours(ctx, tx, taskID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add member: %w", err)
	}
	return nil
}

// SetMemberHours replaces a member's logged hours. Returns false when the
// user is not assigned to the task.
func (s *TaskStore) SetMemberHours(ctx context.Context, taskID, userID uuid.UUID, hours decimal.Decimal) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin set hours: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE task_team_members SET hours_worked = $1
		WHERE task_id = $2 AND user_id = $3
	`, hours, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("set hours: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set hours rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := refreshTaskHours(ctx, tx, taskID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit set hours: %w", err)
	}
	return true, nil
}

// RemoveMember unassigns a user from a task. Returns false when the user
// was not assigned.
func (s *TaskStore) RemoveMember(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin remove member: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM task_team_members WHERE task_id = $1 AND user_id = $2
	`, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove member rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := refreshTaskHours(ctx, tx, taskID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit remove member: %w", err)
	}
	return true, nil
}

// refreshTaskHours recomputes a task's total_hours from its members.
func refreshTaskHours(ctx context.Context, tx *sql.Tx, taskID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET total_hours = (
			SELECT COALESCE(SUM(hours_worked), 0)
			FROM task_team_members WHERE task_id = $1
		), updated_at = NOW()
		WHERE id = $1
	`, taskID); err != nil {
		return fmt.Errorf("refresh task hours: %w", err)
	}
	return nil
}

// TaskStats is the counts-and-hours overview of the task board.
type TaskStats struct {
	Total      int             `json:"total"`
	ByStatus   map[string]int  `json:"by_status"`
	ByPriority map[string]int  `json:"by_priority"`
	Overdue    int             `json:"overdue"`
	TotalHours decimal.Decimal `json:"total_hours"`
}

// Stats returns the overview counters across all tasks.
func (s *TaskStore) Stats(ctx context.Context) (*TaskStats, error) {
	stats := &TaskStats{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		TotalHours: decimal.Zero,
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE `+taskOverdueExpr+`),
		       COALESCE(SUM(t.total_hours), 0)
		FROM tasks t
	`).Scan(&stats.Total, &stats.Overdue, &stats.TotalHours)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("task stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT priority, COUNT(*) FROM tasks GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("task stats by priority: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var priority string
		var n int
		if err := prows.Scan(&priority, &n); err != nil {
			return nil, fmt.Errorf("scan priority count: %w", err)
		}
		stats.ByPriority[priority] = n
	}
	return stats, prows.Err()
}
