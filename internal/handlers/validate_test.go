package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/models"
)

func TestQuotationValidate(t *testing.T) {
	h := &Quotations{}
	clientID := uuid.New()
	item := models.QuoteItem{
		Description: "Consulting",
		Quantity:    decimal.NewFromInt(1),
		Price:       decimal.NewFromInt(100),
	}

	tests := []struct {
		name string
		q    models.Quotation
		want string
	}{
		{
			name: "valid",
			q:    models.Quotation{ClientID: clientID, Items: []models.QuoteItem{item}},
		},
		{
			name: "missing client",
			q:    models.Quotation{Items: []models.QuoteItem{item}},
			want: "Client is required",
		},
		{
			name: "no items",
			q:    models.Quotation{ClientID: clientID},
			want: "at least one item is required",
		},
		{
			name: "bad status",
			q:    models.Quotation{ClientID: clientID, Items: []models.QuoteItem{item}, Status: "archived"},
			want: "Invalid status",
		},
		{
			name: "negative tax rate",
			q: models.Quotation{
				ClientID: clientID, Items: []models.QuoteItem{item},
				TaxRate: decimal.NewFromInt(-1),
			},
			want: "Tax rate cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.validate(&tt.q); got != tt.want {
				t.Errorf("validate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuotationValidateDefaultsStatus(t *testing.T) {
	h := &Quotations{}
	q := models.Quotation{
		ClientID: uuid.New(),
		Items: []models.QuoteItem{{
			Description: "Hosting",
			Quantity:    decimal.NewFromInt(1),
			Price:       decimal.NewFromInt(50),
		}},
	}
	if msg := h.validate(&q); msg != "" {
		t.Fatalf("validate = %q", msg)
	}
	if q.Status != models.QuoteDraft {
		t.Errorf("Status = %q, want draft", q.Status)
	}
}

func TestTaskRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  taskRequest
		want string
	}{
		{
			name: "valid",
			req:  taskRequest{Task: models.Task{Title: "Deploy", Priority: models.PriorityP2}},
		},
		{
			name: "missing title",
			req:  taskRequest{Task: models.Task{Priority: models.PriorityP1}},
			want: "Title is required",
		},
		{
			name: "bad priority",
			req:  taskRequest{Task: models.Task{Title: "Deploy", Priority: "P9"}},
			want: "Priority must be P1-P5",
		},
		{
			name: "bad status",
			req:  taskRequest{Task: models.Task{Title: "Deploy", Priority: models.PriorityP3, Status: "done"}},
			want: "Invalid status",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.validate(); got != tt.want {
				t.Errorf("validate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskRequestValidateDefaultsStatus(t *testing.T) {
	req := taskRequest{Task: models.Task{Title: "Triage", Priority: models.PriorityP5}}
	if msg := req.validate(); msg != "" {
		t.Fatalf("validate = %q", msg)
	}
	if req.Status != models.TaskPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}
}

func TestValidateOpportunityProbability(t *testing.T) {
	over := 120
	o := models.Opportunity{Title: "Expansion", Probability: &over}
	if msg := validateOpportunity(&o); msg != "Probability must be between 0 and 100" {
		t.Errorf("validate = %q", msg)
	}
}
