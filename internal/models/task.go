package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskPriority is one of P1 (highest) through P5 (lowest).
type TaskPriority string

const (
	PriorityP1 TaskPriority = "P1"
	PriorityP2 TaskPriority = "P2"
	PriorityP3 TaskPriority = "P3"
	PriorityP4 TaskPriority = "P4"
	PriorityP5 TaskPriority = "P5"
)

// Valid reports whether the priority is one of P1..P5.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityP5:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskPending          TaskStatus = "pending"
	TaskOngoing          TaskStatus = "on-going"
	TaskAwaitingFeedback TaskStatus = "awaiting_feedback"
	TaskClosed           TaskStatus = "closed"
)

// Valid reports whether the status is one of the recognised values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskOngoing, TaskAwaitingFeedback, TaskClosed:
		return true
	}
	return false
}

// TaskDepartment is an organisational grouping for tasks.
type TaskDepartment struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	IsActive      bool       `json:"is_active"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	CreatedByName *string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	SubcategoryCount int `json:"subcategory_count"`
	TaskCount        int `json:"task_count"`
}

// TaskSubcategory is a finer-grained grouping within a department.
type TaskSubcategory struct {
	ID             uuid.UUID  `json:"id"`
	DepartmentID   uuid.UUID  `json:"department_id"`
	DepartmentName *string    `json:"department_name,omitempty"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	IsActive       bool       `json:"is_active"`
	CreatedBy      *uuid.UUID `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TaskMember is a user assigned to a task together with their logged hours.
type TaskMember struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email,omitempty"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	AddedAt     time.Time       `json:"added_at"`
}

// Task is a unit of internal work, optionally tied to a project, client,
// department and subcategory. Overdue state is derived: a closed task is
// overdue when it closed after its due date, an open task when today is
// past its due date.
type Task struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	TicketNumber    *string         `json:"ticket_number"`
	TicketURL       *string         `json:"ticket_url"`
	Priority        TaskPriority    `json:"priority"`
	DepartmentID    *uuid.UUID      `json:"department_id"`
	DepartmentName  *string         `json:"department_name,omitempty"`
	SubcategoryID   *uuid.UUID      `json:"subcategory_id"`
	SubcategoryName *string         `json:"subcategory_name,omitempty"`
	ProjectID       *uuid.UUID      `json:"project_id"`
	ProjectName     *string         `json:"project_name,omitempty"`
	ClientID        *uuid.UUID      `json:"client_id"`
	ClientName      *string         `json:"client_name,omitempty"`
	Status          TaskStatus      `json:"status"`
	StartDate       *time.Time      `json:"start_date"`
	DueDate         *time.Time      `json:"due_date"`
	CloseDate       *time.Time      `json:"close_date"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	IsOverdue       bool            `json:"is_overdue"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
	CreatedByName   *string         `json:"created_by_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	TeamMembers []TaskMember `json:"team_members"`
}
