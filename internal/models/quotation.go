package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus is the caller-supplied document status. Any of the five
// values may be set at any time; transition legality is not enforced.
type QuotationStatus string

const (
	QuoteDraft    QuotationStatus = "draft"
	QuoteSent     QuotationStatus = "sent"
	QuoteAccepted QuotationStatus = "accepted"
	QuoteRejected QuotationStatus = "rejected"
	QuoteExpired  QuotationStatus = "expired"
)

// Valid reports whether the status is one of the recognised values.
func (s QuotationStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return true
	}
	return false
}

// QuoteItem is one line of a quotation. Items are stored as a JSONB array
// on the quotation row, ordered as submitted.
type QuoteItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
}

// Quotation is a priced offer to a client. The financial columns
// (subtotal, tax_amount, total) are derived from the items, discount and
// tax rate; they are recomputed on every write and never set directly.
type Quotation struct {
	ID            uuid.UUID       `json:"id"`
	QuoteNumber   string          `json:"quote_number"`
	ClientID      uuid.UUID       `json:"client_id"`
	OpportunityID *uuid.UUID      `json:"opportunity_id"`
	TemplateID    *uuid.UUID      `json:"template_id"`
	Status        QuotationStatus `json:"status"`
	ValidUntil    *time.Time      `json:"valid_until"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Items         []QuoteItem     `json:"items"`
	Notes         *string         `json:"notes"`
	Terms         *string         `json:"terms"`
	Description   *string         `json:"description"`
	PreparedBy    *string         `json:"prepared_by"`
	CreatedBy     *uuid.UUID      `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Joined display fields, populated on reads.
	ClientName          *string `json:"client_name,omitempty"`
	ClientEmail         *string `json:"client_email,omitempty"`
	ClientPhone         *string `json:"client_phone,omitempty"`
	ClientCompany       *string `json:"client_company,omitempty"`
	ClientAddress       *string `json:"client_address,omitempty"`
	ClientCity          *string `json:"client_city,omitempty"`
	ClientCountry       *string `json:"client_country,omitempty"`
	PrimaryContactName  *string `json:"primary_contact_name,omitempty"`
	PrimaryContactEmail *string `json:"primary_contact_email,omitempty"`
	PrimaryContactPhone *string `json:"primary_contact_phone,omitempty"`
	ContactPosition     *string `json:"primary_contact_position,omitempty"`
	OpportunityTitle    *string `json:"opportunity_title,omitempty"`
	CreatedByName       *string `json:"created_by_name,omitempty"`
	TemplateName        *string `json:"template_name,omitempty"`

	// Template presentation fields, populated on single reads and for the
	// PDF renderer. Nil when the quotation has no template.
	Template *QuotationTemplate `json:"template,omitempty"`
}
