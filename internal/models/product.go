package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable product or service that can be referenced from
// quotation line items.
type Product struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	Cost          *decimal.Decimal `json:"cost"`
	Category      *string          `json:"category"`
	Unit          *string          `json:"unit"`
	IsActive      bool             `json:"is_active"`
	CreatedBy     *uuid.UUID       `json:"created_by"`
	CreatedByName *string          `json:"created_by_name,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductTag is a label used to group products in the catalog UI.
type ProductTag struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	CreatedBy *uuid.UUID `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// ServiceUnit is a billing unit for services (hour, day, license, ...).
type ServiceUnit struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Abbreviation *string    `json:"abbreviation"`
	CreatedBy    *uuid.UUID `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}
