package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityStage tracks a deal through the pipeline.
type OpportunityStage string

const (
	StageProspecting   OpportunityStage = "prospecting"
	StageQualification OpportunityStage = "qualification"
	StageProposal      OpportunityStage = "proposal"
	StageNegotiation   OpportunityStage = "negotiation"
	StageClosedWon     OpportunityStage = "closed_won"
	StageClosedLost    OpportunityStage = "closed_lost"
)

// Valid reports whether the stage is one of the recognised values.
func (s OpportunityStage) Valid() bool {
	switch s {
	case StageProspecting, StageQualification, StageProposal,
		StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// Opportunity is a potential deal, optionally linked to the client and the
// lead it originated from.
type Opportunity struct {
	ID                uuid.UUID        `json:"id"`
	Title             string           `json:"title"`
	ClientID          *uuid.UUID       `json:"client_id"`
	ClientName        *string          `json:"client_name,omitempty"`
	LeadID            *uuid.UUID       `json:"lead_id"`
	LeadName          *string          `json:"lead_name,omitempty"`
	Value             *decimal.Decimal `json:"value"`
	Stage             OpportunityStage `json:"stage"`
	Probability       *int             `json:"probability"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	AssignedTo        *uuid.UUID       `json:"assigned_to"`
	AssignedToName    *string          `json:"assigned_to_name,omitempty"`
	Notes             *string          `json:"notes"`
	CreatedBy         *uuid.UUID       `json:"created_by"`
	CreatedByName     *string          `json:"created_by_name,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
