package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quotedesk/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(qty, price string) models.QuoteItem {
	return models.QuoteItem{Description: "work", Quantity: dec(qty), Price: dec(price)}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.QuoteItem
		taxRate  string
		discount string
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "two items with tax and discount",
			items:    []models.QuoteItem{item("2", "100"), item("1", "50")},
			taxRate:  "15",
			discount: "10",
			subtotal: "250",
			tax:      "36",
			total:    "276",
		},
		{
			name:     "no tax no discount",
			items:    []models.QuoteItem{item("3", "19.99")},
			taxRate:  "0",
			discount: "0",
			subtotal: "59.97",
			tax:      "0",
			total:    "59.97",
		},
		{
			name:     "fractional quantity",
			items:    []models.QuoteItem{item("2.5", "40")},
			taxRate:  "10",
			discount: "0",
			subtotal: "100",
			tax:      "10",
			total:    "110",
		},
		{
			name:     "discount exceeding subtotal stays negative",
			items:    []models.QuoteItem{item("1", "100")},
			taxRate:  "15",
			discount: "150",
			subtotal: "100",
			tax:      "-7.5",
			total:    "-57.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, dec(tt.taxRate), dec(tt.discount))

			if !got.Subtotal.Equal(dec(tt.subtotal)) {
				t.Errorf("subtotal: got %s, want %s", got.Subtotal, tt.subtotal)
			}
			if !got.TaxAmount.Equal(dec(tt.tax)) {
				t.Errorf("tax: got %s, want %s", got.TaxAmount, tt.tax)
			}
			if !got.Total.Equal(dec(tt.total)) {
				t.Errorf("total: got %s, want %s", got.Total, tt.total)
			}

			// total must equal taxable + tax exactly.
			taxable := got.Subtotal.Sub(got.Discount)
			if !got.Total.Equal(taxable.Add(got.TaxAmount)) {
				t.Errorf("total %s != taxable %s + tax %s", got.Total, taxable, got.TaxAmount)
			}
		})
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []models.QuoteItem{item("7", "13.37"), item("0.5", "99.99")}
	a := ComputeTotals(items, dec("21"), dec("5"))
	b := ComputeTotals(items, dec("21"), dec("5"))

	if !a.Total.Equal(b.Total) || !a.Subtotal.Equal(b.Subtotal) || !a.TaxAmount.Equal(b.TaxAmount) {
		t.Errorf("repeated computation differs: %+v vs %+v", a, b)
	}
}

func TestTotalsRounded(t *testing.T) {
	// 3 × 33.333 = 99.999 → 100.00 at persistence, exact before.
	got := ComputeTotals([]models.QuoteItem{item("3", "33.333")}, dec("0"), dec("0"))
	if !got.Subtotal.Equal(dec("99.999")) {
		t.Fatalf("intermediate subtotal rounded early: %s", got.Subtotal)
	}
	r := got.Rounded()
	if r.Subtotal.String() != "100" {
		t.Errorf("rounded subtotal: got %s, want 100", r.Subtotal)
	}

	// Half-up at the second decimal.
	half := Totals{Subtotal: dec("1.005"), TaxAmount: dec("0"), Discount: dec("0"), Total: dec("1.005")}.Rounded()
	if half.Total.String() != "1.01" {
		t.Errorf("half-up rounding: got %s, want 1.01", half.Total)
	}
}

func TestSchemePrefix(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	if got := Daily.Prefix(at); got != "20260828" {
		t.Errorf("daily prefix: got %q, want 20260828", got)
	}
	if got := Yearly.Prefix(at); got != "QT-2026-" {
		t.Errorf("yearly prefix: got %q, want QT-2026-", got)
	}
}

func TestSchemeNext(t *testing.T) {
	tests := []struct {
		scheme Scheme
		prefix string
		last   string
		want   string
	}{
		{Daily, "20260828", "", "20260828001"},
		{Daily, "20260828", "20260828001", "20260828002"},
		{Daily, "20260828", "20260828099", "20260828100"},
		{Yearly, "QT-2026-", "", "QT-2026-0001"},
		{Yearly, "QT-2026-", "QT-2026-0041", "QT-2026-0042"},
	}

	for _, tt := range tests {
		got, err := tt.scheme.Next(tt.prefix, tt.last)
		if err != nil {
			t.Errorf("Next(%q, %q): %v", tt.prefix, tt.last, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Next(%q, %q): got %q, want %q", tt.prefix, tt.last, got, tt.want)
		}
	}
}

func TestSchemeNextSequence(t *testing.T) {
	// Repeated minting within one scope yields distinct increasing numbers.
	prefix := Daily.Prefix(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	seen := map[string]bool{}
	last := ""
	for i := 0; i < 25; i++ {
		next, err := Daily.Next(prefix, last)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if seen[next] {
			t.Fatalf("duplicate number %q", next)
		}
		if next <= last {
			t.Fatalf("number %q not greater than %q", next, last)
		}
		seen[next] = true
		last = next
	}
}

func TestSchemeNextMalformed(t *testing.T) {
	if _, err := Daily.Next("20260828", "xx"); err == nil {
		t.Error("expected error for short malformed number")
	}
	if _, err := Daily.Next("20260828", "20260828abc"); err == nil {
		t.Error("expected error for non-numeric counter")
	}
}

func TestValidateItems(t *testing.T) {
	if err := ValidateItems(nil); err == nil {
		t.Error("expected error for empty item list")
	}
	if err := ValidateItems([]models.QuoteItem{{Description: " ", Quantity: dec("1"), Price: dec("1")}}); err == nil {
		t.Error("expected error for blank description")
	}
	if err := ValidateItems([]models.QuoteItem{item("-1", "5")}); err == nil {
		t.Error("expected error for negative quantity")
	}
	if err := ValidateItems([]models.QuoteItem{item("1", "-5")}); err == nil {
		t.Error("expected error for negative price")
	}
	if err := ValidateItems([]models.QuoteItem{item("2", "100")}); err != nil {
		t.Errorf("valid items rejected: %v", err)
	}
}
