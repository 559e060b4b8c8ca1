package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project groups tasks delivered for a client.
type Project struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        *string          `json:"description"`
	ClientID           *uuid.UUID       `json:"client_id"`
	ClientName         *string          `json:"client_name,omitempty"`
	ClientCompany      *string          `json:"client_company,omitempty"`
	Status             string           `json:"status"`
	Priority           string           `json:"priority"`
	StartDate          *time.Time       `json:"start_date"`
	DueDate            *time.Time       `json:"due_date"`
	Budget             *decimal.Decimal `json:"budget"`
	ProjectManagerID   *uuid.UUID       `json:"project_manager_id"`
	ProjectManagerName *string          `json:"project_manager_name,omitempty"`
	CreatedBy          *uuid.UUID       `json:"created_by"`
	CreatedByName      *string          `json:"created_by_name,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	// Aggregates computed in list/detail queries.
	TaskCount      int              `json:"task_count"`
	CompletedTasks int              `json:"completed_tasks"`
	TotalHours     *decimal.Decimal `json:"total_hours,omitempty"`
}
