package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewInvoiceDataDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	inv := NewInvoiceData("#INV-A1B2C3", now)

	assert.Equal(t, "2026-03-14", inv.InvoiceDate)
	assert.Equal(t, "2026-04-13", inv.DueDate)
	assert.Equal(t, InvoiceDraft, inv.Status)
	assert.Equal(t, DefaultInvoiceTerms, inv.Terms)

	// The seeded slice is a copy; editing it must not leak into the
	// package-level defaults.
	inv.Terms[0] = "edited"
	assert.NotEqual(t, "edited", DefaultInvoiceTerms[0])
}

func TestNewQuotationDataDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	q := NewQuotationData("#QUO000001", now)

	assert.Equal(t, "#QUO000001", q.QuotationNumber)
	assert.Equal(t, "2026-03-14", q.Date)
	assert.Empty(t, q.Items)
	assert.Empty(t, q.Terms)
	assert.Empty(t, q.Notes)
}
