package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalyticsStore aggregates task activity for the reporting endpoints.
type AnalyticsStore struct {
	db *sql.DB
}

// NewAnalyticsStore creates a new AnalyticsStore with the given database connection.
func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

// AnalyticsFilters narrows the overview report. Nil values mean "no filter".
type AnalyticsFilters struct {
	UserID   *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// Distribution is one bucket of a grouped count.
type Distribution struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// UserStats is one user's row in the per-user breakdown.
type UserStats struct {
	UserID    uuid.UUID       `json:"user_id"`
	FullName  string          `json:"full_name"`
	TaskCount int             `json:"task_count"`
	Closed    int             `json:"closed"`
	Hours     decimal.Decimal `json:"hours"`
}

// TimelinePoint is one day of the creation timeline.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview is the full analytics report.
type Overview struct {
	TotalTasks   int             `json:"total_tasks"`
	ClosedTasks  int             `json:"closed_tasks"`
	OverdueTasks int             `json:"overdue_tasks"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	ByStatus     []Distribution  `json:"by_status"`
	ByPriority   []Distribution  `json:"by_priority"`
	ByDepartment []Distribution  `json:"by_department"`
	ByClient     []Distribution  `json:"by_client"`
	ByUser       []UserStats     `json:"by_user"`
	Timeline     []TimelinePoint `json:"timeline"`
}

// filterClause builds the WHERE fragment shared by the overview queries.
func (f AnalyticsFilters) filterClause(args *[]any) string {
	var conds []string
	arg := func(v any) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}
	if f.UserID != nil {
		conds = append(conds, "t.created_by = "+arg(*f.UserID))
	}
	if f.DateFrom != nil {
		conds = append(conds, "t.created_at >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		conds = append(conds, "t.created_at <= "+arg(*f.DateTo))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Overview computes the analytics report for the given filters.
func (s *AnalyticsStore) Overview(ctx context.Context, f AnalyticsFilters) (*Overview, error) {
	o := &Overview{TotalHours: decimal.Zero}

	var args []any
	where := f.filterClause(&args)

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE t.status = 'closed'),
		       COUNT(*) FILTER (WHERE `+taskOverdueExpr+`),
		       COALESCE(SUM(t.total_hours), 0)
		FROM tasks t`+where,
		args...,
	).Scan(&o.TotalTasks, &o.ClosedTasks, &o.OverdueTasks, &o.TotalHours)
	if err != nil {
		return nil, fmt.Errorf("analytics totals: %w", err)
	}

	var distErr error
	dist := func(query string) []Distribution {
		if distErr != nil {
			return nil
		}
		var out []Distribution
		out, distErr = s.distribution(ctx, query, args)
		return out
	}

	o.ByStatus = dist(`
		SELECT t.status, COUNT(*) FROM tasks t` + where + `
		GROUP BY t.status ORDER BY COUNT(*) DESC`)
	o.ByPriority = dist(`
		SELECT t.priority, COUNT(*) FROM tasks t` + where + `
		GROUP BY t.priority ORDER BY t.priority`)
	o.ByDepartment = dist(`
		SELECT COALESCE(d.name, 'Unassigned'), COUNT(*)
		FROM tasks t
		LEFT JOIN task_departments d ON t.department_id = d.id` + where + `
		GROUP BY d.name ORDER BY COUNT(*) DESC`)
	o.ByClient = dist(`
		SELECT COALESCE(c.name, 'Internal'), COUNT(*)
		FROM tasks t
		LEFT JOIN clients c ON t.client_id = c.id` + where + `
		GROUP BY c.name ORDER BY COUNT(*) DESC`)
	if distErr != nil {
		return nil, distErr
	}

	if err := s.userStats(ctx, o, where, args); err != nil {
		return nil, err
	}
	if err := s.timeline(ctx, o, where, args); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *AnalyticsStore) distribution(ctx context.Context, query string, args []any) ([]Distribution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics distribution: %w", err)
	}
	defer rows.Close()

	out := []Distribution{}
	for rows.Next() {
		var d Distribution
		if err := rows.Scan(&d.Label, &d.Count); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *AnalyticsStore) userStats(ctx context.Context, o *Overview, where string, args []any) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.full_name, COUNT(t.id),
		       COUNT(t.id) FILTER (WHERE t.status = 'closed'),
		       COALESCE(SUM(t.total_hours), 0)
		FROM tasks t
		JOIN users u ON t.created_by = u.id`+where+`
		GROUP BY u.id, u.full_name
		ORDER BY COUNT(t.id) DESC
	`, args...)
	if err != nil {
		return fmt.Errorf("analytics user stats: %w", err)
	}
	defer rows.Close()

	o.ByUser = []UserStats{}
	for rows.Next() {
		var u UserStats
		if err := rows.Scan(&u.UserID, &u.FullName, &u.TaskCount, &u.Closed, &u.Hours); err != nil {
			return fmt.Errorf("scan user stats: %w", err)
		}
		o.ByUser = append(o.ByUser, u)
	}
	return rows.Err()
}

// timeline reports task creations per day over the last 30 days, scoped by
// the same filters as the rest of the overview.
func (s *AnalyticsStore) timeline(ctx context.Context, o *Overview, where string, args []any) error {
	cond := "t.created_at >= CURRENT_DATE - INTERVAL '30 days'"
	if where == "" {
		where = " WHERE " + cond
	} else {
		where += " AND " + cond
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT TO_CHAR(t.created_at::date, 'YYYY-MM-DD'), COUNT(*)
		FROM tasks t`+where+`
		GROUP BY t.created_at::date
		ORDER BY t.created_at::date
	`, args...)
	if err != nil {
		return fmt.Errorf("analytics timeline: %w", err)
	}
	defer rows.Close()

	o.Timeline = []TimelinePoint{}
	for rows.Next() {
		var p TimelinePoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return fmt.Errorf("scan timeline: %w", err)
		}
		o.Timeline = append(o.Timeline, p)
	}
	return rows.Err()
}

// Users returns the distinct task creators, for filter dropdowns.
func (s *AnalyticsStore) Users(ctx context.Context) ([]UserStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT u.id, u.full_name
		FROM tasks t
		JOIN users u ON t.created_by = u.id
		ORDER BY u.full_name
	`)
	if err != nil {
		return nil, fmt.Errorf("analytics users: %w", err)
	}
	defer rows.Close()

	users := []UserStats{}
	for rows.Next() {
		var u UserStats
		if err := rows.Scan(&u.UserID, &u.FullName); err != nil {
			return nil, fmt.Errorf("scan analytics user: %w", err)
		}
		u.Hours = decimal.Zero
		users = append(users, u)
	}
	return users, rows.Err()
}
