package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionQuotation(t *testing.T) {
	tests := []struct {
		from, to QuotationStatus
		want     bool
	}{
		{QuotationDraft, QuotationSent, true},
		{QuotationSent, QuotationAccepted, true},
		{QuotationSent, QuotationRejected, true},
		{QuotationDraft, QuotationAccepted, false},
		{QuotationAccepted, QuotationSent, false},
		{QuotationRejected, QuotationDraft, false},
		{QuotationSent, QuotationExpired, false}, // display-only state, never a target
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionQuotation(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionInvoice(t *testing.T) {
	tests := []struct {
		from, to InvoiceStatus
		want     bool
	}{
		{InvoiceDraft, InvoiceSent, true},
		{InvoiceSent, InvoicePaid, true},
		{InvoiceDraft, InvoicePaid, false},
		{InvoicePaid, InvoiceSent, false},
		{InvoiceSent, InvoiceOverdue, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionInvoice(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestQuotationDisplayStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := "2026-05-01"
	future := "2026-07-01"

	tests := []struct {
		name       string
		status     QuotationStatus
		validUntil string
		want       QuotationStatus
	}{
		{"sent past deadline expires", QuotationSent, past, QuotationExpired},
		{"sent before deadline stays sent", QuotationSent, future, QuotationSent},
		{"accepted never expires", QuotationAccepted, past, QuotationAccepted},
		{"rejected never expires", QuotationRejected, past, QuotationRejected},
		{"draft is not date-checked", QuotationDraft, past, QuotationDraft},
		{"missing deadline is ignored", QuotationSent, "", QuotationSent},
		{"garbage deadline is ignored", QuotationSent, "soon", QuotationSent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuotationDisplayStatus(tt.status, tt.validUntil, now))
		})
	}
}

func TestInvoiceDisplayStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := "2026-05-01"
	future := "2026-07-01"

	tests := []struct {
		name    string
		status  InvoiceStatus
		dueDate string
		want    InvoiceStatus
	}{
		{"sent past due shows overdue", InvoiceSent, past, InvoiceOverdue},
		{"draft past due shows overdue", InvoiceDraft, past, InvoiceOverdue},
		{"sent before due stays sent", InvoiceSent, future, InvoiceSent},
		{"paid never shows overdue", InvoicePaid, past, InvoicePaid},
		{"missing due date is ignored", InvoiceSent, "", InvoiceSent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvoiceDisplayStatus(tt.status, tt.dueDate, now))
		})
	}
}

func TestDisplayStatusNeverPersists(t *testing.T) {
	// The derived value is returned, not written back.
	status := QuotationSent
	derived := QuotationDisplayStatus(status, "2020-01-01", time.Now())
	assert.Equal(t, QuotationExpired, derived)
	assert.Equal(t, QuotationSent, status)
}
