// Package quote implements the quotation financial engine: deriving the
// money columns of a quotation from its line items, and minting scoped,
// strictly increasing quote numbers.
package quote

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotedesk/internal/models"
)

// Scheme selects the quote-number format and reset window.
type Scheme string

const (
	// Daily numbers look like 20260828001: date prefix plus a 3-digit
	// counter that resets every day.
	Daily Scheme = "daily"
	// Yearly numbers look like QT-2026-0001: year prefix plus a 4-digit
	// counter that resets every year.
	Yearly Scheme = "yearly"
)

// counterWidth returns the zero-padded counter width for the scheme.
func (s Scheme) counterWidth() int {
	if s == Yearly {
		return 4
	}
	return 3
}

// Prefix returns the scope prefix for quote numbers minted at t. All
// numbers in the same scope share this prefix and their counters are
// compared within it.
func (s Scheme) Prefix(t time.Time) string {
	if s == Yearly {
		return fmt.Sprintf("QT-%04d-", t.Year())
	}
	return t.Format("20060102")
}

// Next returns the quote number following last within the scope prefix.
// last is the lexicographically greatest existing number for the scope, or
// empty when the scope has none yet (the counter then starts at 1). The
// caller must run the lookup and the insert in one transaction; a unique
// index on the number column is the backstop against concurrent minting.
func (s Scheme) Next(prefix, last string) (string, error) {
	n := 1
	if last != "" {
		width := s.counterWidth()
		if len(last) < width {
			return "", fmt.Errorf("malformed quote number %q", last)
		}
		parsed, err := strconv.Atoi(last[len(last)-width:])
		if err != nil {
			return "", fmt.Errorf("malformed quote number %q: %w", last, err)
		}
		n = parsed + 1
	}
	return fmt.Sprintf("%s%0*d", prefix, s.counterWidth(), n), nil
}

// Totals holds the derived financial fields of a quotation. Values are
// exact; call Rounded before persisting.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals derives the quotation money fields from its line items,
// tax rate (percent) and discount (absolute amount):
//
//	subtotal = Σ quantity × price
//	taxable  = subtotal − discount
//	tax      = taxable × rate / 100
//	total    = taxable + tax
//
// The discount is taken as supplied and may exceed the subtotal; the
// resulting negative taxable amount flows through the arithmetic unchanged.
func ComputeTotals(items []models.QuoteItem, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.Price))
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Div(decimal.NewFromInt(100))

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Discount:  discount,
		Total:     taxable.Add(tax),
	}
}

// Rounded returns the totals rounded half-up to two decimal places, the
// form in which they are persisted. Intermediate arithmetic stays exact;
// rounding happens only here.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:  t.Subtotal.Round(2),
		TaxAmount: t.TaxAmount.Round(2),
		Discount:  t.Discount.Round(2),
		Total:     t.Total.Round(2),
	}
}

// ValidateItems rejects quotations without at least one line item or with
// negative quantities or prices.
func ValidateItems(items []models.QuoteItem) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for i, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			return fmt.Errorf("item %d: description is required", i+1)
		}
		if it.Quantity.IsNegative() {
			return fmt.Errorf("item %d: quantity cannot be negative", i+1)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("item %d: price cannot be negative", i+1)
		}
	}
	return nil
}
