package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationTemplate carries the company identity and presentation options
// printed on quotation PDFs. Exactly one template may be the default at
// any time; the default is used when a quotation names no template.
type QuotationTemplate struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	IsDefault       bool            `json:"is_default"`
	CompanyName     *string         `json:"company_name"`
	CompanyTagline  *string         `json:"company_tagline"`
	CompanyAddress  *string         `json:"company_address"`
	CompanyPhone    *string         `json:"company_phone"`
	CompanyEmail    *string         `json:"company_email"`
	CompanyWebsite  *string         `json:"company_website"`
	CompanyRegNo    *string         `json:"company_reg_number"`
	CompanyVATNo    *string         `json:"company_vat_number"`
	LogoURL         *string         `json:"logo_url"`
	PrimaryColor    string          `json:"primary_color"`
	SecondaryColor  string          `json:"secondary_color"`
	AccentColor     string          `json:"accent_color"`
	ShowLogo        bool            `json:"show_logo"`
	ShowTagline     bool            `json:"show_tagline"`
	ShowClientInfo  bool            `json:"show_client_info"`
	ShowDescription bool            `json:"show_description"`
	ShowTerms       bool            `json:"show_terms"`
	ShowSignature   bool            `json:"show_signature"`
	DefaultTerms    *string         `json:"default_terms"`
	DefaultNotes    *string         `json:"default_notes"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
