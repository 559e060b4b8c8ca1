package store

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quotedesk/internal/models"
	"quotedesk/internal/quote"
)

func TestQuotationStoreCreateDerivesTotals(t *testing.T) {
	db := testDB(t)
	ctx := testCtx()

	clientName := "store-test-quote-client"
	t.Cleanup(func() { cleanClients(t, db, clientName) })

	client, err := NewClientStore(db).Create(ctx, &models.Client{Name: clientName})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	s := NewQuotationStore(db, quote.Daily)
	q := &models.Quotation{
		ClientID: client.ID,
		Status:   models.QuoteDraft,
		TaxRate:  decimal.NewFromInt(15),
		Discount: decimal.NewFromInt(10),
		Items: []models.QuoteItem{
			{Description: "Design", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100)},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)},
		},
	}

	created, err := s.Create(ctx, q)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, want := created.Subtotal.StringFixed(2), "250.00"; got != want {
		t.Errorf("subtotal: got %s, want %s", got, want)
	}
	if got, want := created.TaxAmount.StringFixed(2), "36.00"; got != want {
		t.Errorf("tax: got %s, want %s", got, want)
	}
	if got, want := created.Total.StringFixed(2), "276.00"; got != want {
		t.Errorf("total: got %s, want %s", got, want)
	}

	prefix := quote.Daily.Prefix(time.Now())
	if !strings.HasPrefix(created.QuoteNumber, prefix) {
		t.Errorf("quote number %q missing prefix %q", created.QuoteNumber, prefix)
	}
}

func TestQuotationStoreNumbersIncrease(t *testing.T) {
	db := testDB(t)
	ctx := testCtx()

	clientName := "store-test-quote-seq"
	t.Cleanup(func() { cleanClients(t, db, clientName) })

	client, err := NewClientStore(db).Create(ctx, &models.Client{Name: clientName})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	s := NewQuotationStore(db, quote.Daily)
	item := []models.QuoteItem{
		{Description: "Work", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)},
	}

	var prev string
	for i := 0; i < 3; i++ {
		q, err := s.Create(ctx, &models.Quotation{
			ClientID: client.ID,
			Status:   models.QuoteDraft,
			TaxRate:  decimal.Zero,
			Discount: decimal.Zero,
			Items:    item,
		})
		if err != nil {
			t.Fatalf("Create #%d: %v", i+1, err)
		}
		if prev != "" && q.QuoteNumber <= prev {
			t.Errorf("quote number %q not greater than %q", q.QuoteNumber, prev)
		}
		prev = q.QuoteNumber
	}
}

func TestQuotationStoreUpdateRecomputes(t *testing.T) {
	db := testDB(t)
	ctx := testCtx()

	clientName := "store-test-quote-update"
	t.Cleanup(func() { cleanClients(t, db, clientName) })

	client, err := NewClientStore(db).Create(ctx, &models.Client{Name: clientName})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	s := NewQuotationStore(db, quote.Daily)
	created, err := s.Create(ctx, &models.Quotation{
		ClientID: client.ID,
		Status:   models.QuoteDraft,
		TaxRate:  decimal.Zero,
		Discount: decimal.Zero,
		Items: []models.QuoteItem{
			{Description: "Work", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	number := created.QuoteNumber

	updated, err := s.Update(ctx, created.ID, &models.Quotation{
		ClientID: client.ID,
		Status:   models.QuoteSent,
		TaxRate:  decimal.NewFromInt(10),
		Discount: decimal.Zero,
		Items: []models.QuoteItem{
			{Description: "Work", Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated quotation, got nil")
	}

	if got, want := updated.Subtotal.StringFixed(2), "30.00"; got != want {
		t.Errorf("subtotal: got %s, want %s", got, want)
	}
	if got, want := updated.Total.StringFixed(2), "33.00"; got != want {
		t.Errorf("total: got %s, want %s", got, want)
	}
	if updated.QuoteNumber != number {
		t.Errorf("quote number changed on update: %q -> %q", number, updated.QuoteNumber)
	}
}
