package document

import (
	"fmt"
	"strings"
	"time"
)

// Terms and notes persist as newline-joined text, so an embedded newline
// inside a single entry would be silently split into two on reload. Reject
// it up front instead of corrupting the round-trip.
func validateLines(entries []string, field string) error {
	for i, entry := range entries {
		if strings.ContainsAny(entry, "\n\r") {
			return fmt.Errorf("%s entry %d must not contain line breaks", field, i)
		}
	}
	return nil
}

func validateDate(value, field string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
	if _, err := time.Parse(DateFormat, value); err != nil {
		return fmt.Errorf("%s must be in YYYY-MM-DD format", field)
	}
	return nil
}

// Validate checks a quotation draft before it is considered persistable.
// Drafts are deliberately permissive: parties may be incomplete while the
// user is still typing, but dates, amounts and list entries must be sound.
func (d *QuotationData) Validate() error {
	if err := validateDate(d.Date, "date", true); err != nil {
		return err
	}
	if err := validateDate(d.ValidUntil, "valid until", false); err != nil {
		return err
	}
	if _, err := Recompute(d.Items, d.Discount, d.Tax, d.Shipping); err != nil {
		return err
	}
	if err := validateLines(d.Terms, "terms"); err != nil {
		return err
	}
	return validateLines(d.Notes, "notes")
}

// ValidateBankInfo enforces the invoice rule that bank details are mandatory
// and non-empty at all times after creation.
func ValidateBankInfo(info BankInfo) error {
	if strings.TrimSpace(info.BankName) == "" {
		return fmt.Errorf("bank name is required")
	}
	if strings.TrimSpace(info.AccountNumber) == "" {
		return fmt.Errorf("bank account number is required")
	}
	if strings.TrimSpace(info.AccountName) == "" {
		return fmt.Errorf("bank account name is required")
	}
	return nil
}

// Validate checks an invoice before persistence. Unlike quotations, bank
// info must be present and non-empty.
func (d *InvoiceData) Validate() error {
	if err := validateDate(d.InvoiceDate, "invoice date", true); err != nil {
		return err
	}
	if err := validateDate(d.DueDate, "due date", true); err != nil {
		return err
	}
	if err := validateDate(d.PaidDate, "paid date", false); err != nil {
		return err
	}
	if d.Status != "" && !d.Status.Valid() {
		return fmt.Errorf("invalid invoice status %q", d.Status)
	}
	if err := ValidateBankInfo(d.BankInfo); err != nil {
		return err
	}
	if _, err := Recompute(d.Items, d.Discount, d.SSTAmount, d.Shipping); err != nil {
		return err
	}
	if d.SSTRate < 0 || d.SSTRate > 100 {
		return fmt.Errorf("SST rate must be between 0 and 100")
	}
	if err := validateLines(d.Terms, "terms"); err != nil {
		return err
	}
	return validateLines(d.Notes, "notes")
}
