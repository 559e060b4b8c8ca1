package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a company or person the business sells to. Quotations,
// opportunities and projects all hang off a client.
type Client struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	Company       *string    `json:"company"`
	Address       *string    `json:"address"`
	City          *string    `json:"city"`
	Country       *string    `json:"country"`
	TaxNumber     *string    `json:"tax_number"`
	Notes         *string    `json:"notes"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	CreatedByName *string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Contact is a person at a client company. At most one contact per client
// is flagged primary; the primary contact is preferred over the client's
// own email/phone when building quotation documents.
type Contact struct {
	ID            uuid.UUID  `json:"id"`
	ClientID      uuid.UUID  `json:"client_id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	Position      *string    `json:"position"`
	Department    *string    `json:"department"`
	IsPrimary     bool       `json:"is_primary"`
	Notes         *string    `json:"notes"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	CreatedByName *string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
