package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks where a lead sits in the intake funnel.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadLost      LeadStatus = "lost"
	LeadConverted LeadStatus = "converted"
)

// Valid reports whether the status is one of the recognised values.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadLost, LeadConverted:
		return true
	}
	return false
}

// Lead is an unqualified prospect. Leads may later be converted into
// clients and opportunities.
type Lead struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	Company        *string    `json:"company"`
	Source         *string    `json:"source"`
	Status         LeadStatus `json:"status"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	AssignedToName *string    `json:"assigned_to_name,omitempty"`
	Notes          *string    `json:"notes"`
	CreatedBy      *uuid.UUID `json:"created_by"`
	CreatedByName  *string    `json:"created_by_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
