package pdf

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestAttachmentFilename(t *testing.T) {
	created := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		company *string
		client  *string
		want    string
	}{
		{
			name:    "company used when set",
			company: strPtr("Acme Corp"),
			client:  strPtr("Jane"),
			want:    "Quotation - Quote_ID = 20260828001 - Acme Corp - 2026-08-28.pdf",
		},
		{
			name:   "falls back to client name",
			client: strPtr("Jane Doe"),
			want:   "Quotation - Quote_ID = 20260828001 - Jane Doe - 2026-08-28.pdf",
		},
		{
			name: "falls back to NA",
			want: "Quotation - Quote_ID = 20260828001 - NA - 2026-08-28.pdf",
		},
		{
			name:    "strips unsafe characters",
			company: strPtr(`Bad/Co: "Quotes" <GmbH>?`),
			want:    "Quotation - Quote_ID = 20260828001 - BadCo Quotes GmbH - 2026-08-28.pdf",
		},
		{
			name:    "all-unsafe company becomes NA",
			company: strPtr(`///:::***`),
			want:    "Quotation - Quote_ID = 20260828001 - NA - 2026-08-28.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AttachmentFilename("20260828001", tt.company, tt.client, created)
			if got != tt.want {
				t.Errorf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}
