package document

import "time"

// QuotationStatus is the persisted lifecycle state of a quotation.
// QuotationExpired is only ever derived for display; it is never written
// back automatically.
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationExpired  QuotationStatus = "expired"
)

// InvoiceStatus is the persisted lifecycle state of an invoice.
// InvoiceOverdue is display-only, like QuotationExpired.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// quotationTransitions lists the explicit transitions a user may issue.
// Expired is excluded: it is derived from the valid-until date, never set.
var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationDraft: {QuotationSent},
	QuotationSent:  {QuotationAccepted, QuotationRejected},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft: {InvoiceSent},
	InvoiceSent:  {InvoicePaid},
}

// Valid reports whether s is a persistable quotation status.
func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected:
		return true
	}
	return false
}

// Terminal reports whether s must never be overridden by date-derived
// display logic.
func (s QuotationStatus) Terminal() bool {
	return s == QuotationAccepted || s == QuotationRejected
}

// Valid reports whether s is a persistable invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid:
		return true
	}
	return false
}

// Terminal reports whether s must never be overridden by date-derived
// display logic.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoicePaid
}

// CanTransitionQuotation validates an explicit status-change command.
func CanTransitionQuotation(from, to QuotationStatus) bool {
	for _, next := range quotationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionInvoice validates an explicit status-change command.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// QuotationDisplayStatus derives the presentation status: a sent quotation
// whose valid-until date has passed displays as expired. Terminal statuses
// win over the date comparison, and an unparsable or empty date leaves the
// persisted status untouched.
func QuotationDisplayStatus(status QuotationStatus, validUntil string, now time.Time) QuotationStatus {
	if status.Terminal() || status != QuotationSent || validUntil == "" {
		return status
	}
	deadline, err := time.Parse(DateFormat, validUntil)
	if err != nil {
		return status
	}
	if deadline.Before(now.Truncate(24 * time.Hour)) {
		return QuotationExpired
	}
	return status
}

// InvoiceDisplayStatus derives the presentation status: an unpaid invoice
// whose due date has passed displays as overdue.
func InvoiceDisplayStatus(status InvoiceStatus, dueDate string, now time.Time) InvoiceStatus {
	if status.Terminal() || dueDate == "" {
		return status
	}
	deadline, err := time.Parse(DateFormat, dueDate)
	if err != nil {
		return status
	}
	if deadline.Before(now.Truncate(24 * time.Hour)) {
		return InvoiceOverdue
	}
	return status
}
