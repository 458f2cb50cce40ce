package services

import (
	"fmt"
	"strings"
	"time"

	"quotabill/internal/document"
	"quotabill/internal/models"

	"github.com/google/uuid"
)

// The wire shape is nested (party structs, string arrays); the storage row
// is flat (prefixed columns, newline-joined text). The functions here are
// the only place the two shapes meet, and a record round-tripped through
// them must come back equal.

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// splitLines drops blank entries so a round trip never grows the slice.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// softRef parses an optional id string. Malformed ids are dropped rather
// than failing the save; they only drive selection restore.
func softRef(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func softRefString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func parseWireDate(s string) (time.Time, error) {
	t, err := time.Parse(document.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// QuotationToRecord flattens a draft payload onto a storage row. The id is
// the persisted identity when the draft already exists, uuid.Nil for a
// first save.
func QuotationToRecord(userID, id uuid.UUID, d *document.QuotationData) (*models.Quotation, error) {
	date, err := parseWireDate(d.Date)
	if err != nil {
		return nil, err
	}
	var validUntil *time.Time
	if d.ValidUntil != "" {
		t, err := parseWireDate(d.ValidUntil)
		if err != nil {
			return nil, err
		}
		validUntil = &t
	}

	number := d.QuotationNumber
	if number == "" {
		number = fmt.Sprintf("DRAFT-%d", time.Now().Unix())
	}

	return &models.Quotation{
		ID:              id,
		UserID:          userID,
		QuotationNumber: number,
		Date:            date,
		ValidUntil:      validUntil,
		ProjectTitle:    d.ProjectTitle,

		FromCompanyName:         d.From.Name,
		FromCompanyRegistration: d.From.RegistrationNumber,
		FromCompanyAddress:      d.From.Address,
		FromCompanyEmail:        d.From.Email,
		FromCompanyPhone:        d.From.Phone,
		FromCompanyLogoURL:      d.From.LogoURL,
		CompanyInfoID:           softRef(d.CompanyInfoID),

		ClientName:    d.To.Name,
		ClientCompany: d.To.RegistrationNumber,
		ClientAddress: d.To.Address,
		ClientEmail:   d.To.Email,
		ClientPhone:   d.To.Phone,
		ClientID:      softRef(d.ClientID),

		Items:         append([]document.LineItem{}, d.Items...),
		Subtotal:      d.Subtotal,
		DiscountValue: d.Discount,
		TaxAmount:     d.Tax,
		Shipping:      d.Shipping,
		Total:         d.Total,

		Terms: joinLines(d.Terms),
		Notes: joinLines(d.Notes),

		BankName:          d.BankInfo.BankName,
		BankAccountNumber: d.BankInfo.AccountNumber,
		BankAccountName:   d.BankInfo.AccountName,
		BankInfoID:        softRef(d.BankInfoID),
	}, nil
}

// RecordToQuotation rebuilds the nested draft payload from a storage row.
func RecordToQuotation(q *models.Quotation) *document.QuotationData {
	validUntil := ""
	if q.ValidUntil != nil {
		validUntil = q.ValidUntil.Format(document.DateFormat)
	}

	return &document.QuotationData{
		QuotationNumber: q.QuotationNumber,
		Date:            q.Date.Format(document.DateFormat),
		ValidUntil:      validUntil,
		ProjectTitle:    q.ProjectTitle,
		From: document.Party{
			Name:               q.FromCompanyName,
			RegistrationNumber: q.FromCompanyRegistration,
			Address:            q.FromCompanyAddress,
			Email:              q.FromCompanyEmail,
			Phone:              q.FromCompanyPhone,
			LogoURL:            q.FromCompanyLogoURL,
		},
		To: document.Party{
			Name:               q.ClientName,
			RegistrationNumber: q.ClientCompany,
			Address:            q.ClientAddress,
			Email:              q.ClientEmail,
			Phone:              q.ClientPhone,
		},
		Items:    append([]document.LineItem{}, q.Items...),
		Subtotal: q.Subtotal,
		Discount: q.DiscountValue,
		Tax:      q.TaxAmount,
		Shipping: q.Shipping,
		Total:    q.Total,
		Terms:    splitLines(q.Terms),
		Notes:    splitLines(q.Notes),
		BankInfo: document.BankInfo{
			BankName:      q.BankName,
			AccountNumber: q.BankAccountNumber,
			AccountName:   q.BankAccountName,
		},
		ClientID:      softRefString(q.ClientID),
		CompanyInfoID: softRefString(q.CompanyInfoID),
		BankInfoID:    softRefString(q.BankInfoID),
	}
}

// InvoiceToRecord flattens an invoice payload onto a storage row.
func InvoiceToRecord(userID, id uuid.UUID, d *document.InvoiceData) (*models.Invoice, error) {
	invoiceDate, err := parseWireDate(d.InvoiceDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseWireDate(d.DueDate)
	if err != nil {
		return nil, err
	}

	var paidDate *time.Time
	if d.PaidDate != "" {
		t, err := parseWireDate(d.PaidDate)
		if err != nil {
			return nil, err
		}
		paidDate = &t
	}
	var paidAmount *float64
	if d.PaidAmount != 0 {
		v := d.PaidAmount
		paidAmount = &v
	}
	var paymentRef *string
	if d.PaymentReference != "" {
		v := d.PaymentReference
		paymentRef = &v
	}

	status := d.Status
	if status == "" {
		status = document.InvoiceDraft
	}

	return &models.Invoice{
		ID:            id,
		UserID:        userID,
		InvoiceNumber: d.InvoiceNumber,
		PONumber:      d.PONumber,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Status:        string(status),
		ProjectTitle:  d.ProjectTitle,

		FromCompanyName:         d.From.Name,
		FromCompanyRegistration: d.From.RegistrationNumber,
		FromCompanyAddress:      d.From.Address,
		FromCompanyEmail:        d.From.Email,
		FromCompanyPhone:        d.From.Phone,
		FromCompanyLogoURL:      d.From.LogoURL,
		CompanyInfoID:           softRef(d.CompanyInfoID),

		ClientName:    d.To.Name,
		ClientCompany: d.To.RegistrationNumber,
		ClientAddress: d.To.Address,
		ClientEmail:   d.To.Email,
		ClientPhone:   d.To.Phone,
		ClientID:      softRef(d.ClientID),

		Items:         append([]document.LineItem{}, d.Items...),
		Subtotal:      d.Subtotal,
		DiscountValue: d.Discount,
		SSTRate:       d.SSTRate,
		SSTAmount:     d.SSTAmount,
		Shipping:      d.Shipping,
		Total:         d.Total,

		Terms: joinLines(d.Terms),
		Notes: joinLines(d.Notes),

		BankName:          d.BankInfo.BankName,
		BankAccountNumber: d.BankInfo.AccountNumber,
		BankAccountName:   d.BankInfo.AccountName,
		BankInfoID:        softRef(d.BankInfoID),

		PaidDate:         paidDate,
		PaidAmount:       paidAmount,
		PaymentReference: paymentRef,

		QuotationID:     softRef(d.QuotationID),
		QuotationNumber: d.QuotationNumber,
	}, nil
}

// RecordToInvoice rebuilds the nested invoice payload from a storage row.
func RecordToInvoice(inv *models.Invoice) *document.InvoiceData {
	paidDate := ""
	if inv.PaidDate != nil {
		paidDate = inv.PaidDate.Format(document.DateFormat)
	}
	var paidAmount float64
	if inv.PaidAmount != nil {
		paidAmount = *inv.PaidAmount
	}
	paymentRef := ""
	if inv.PaymentReference != nil {
		paymentRef = *inv.PaymentReference
	}

	return &document.InvoiceData{
		InvoiceNumber: inv.InvoiceNumber,
		PONumber:      inv.PONumber,
		InvoiceDate:   inv.InvoiceDate.Format(document.DateFormat),
		DueDate:       inv.DueDate.Format(document.DateFormat),
		Status:        document.InvoiceStatus(inv.Status),
		ProjectTitle:  inv.ProjectTitle,
		From: document.Party{
			Name:               inv.FromCompanyName,
			RegistrationNumber: inv.FromCompanyRegistration,
			Address:            inv.FromCompanyAddress,
			Email:              inv.FromCompanyEmail,
			Phone:              inv.FromCompanyPhone,
			LogoURL:            inv.FromCompanyLogoURL,
		},
		To: document.Party{
			Name:               inv.ClientName,
			RegistrationNumber: inv.ClientCompany,
			Address:            inv.ClientAddress,
			Email:              inv.ClientEmail,
			Phone:              inv.ClientPhone,
		},
		Items:     append([]document.LineItem{}, inv.Items...),
		Subtotal:  inv.Subtotal,
		Discount:  inv.DiscountValue,
		SSTRate:   inv.SSTRate,
		SSTAmount: inv.SSTAmount,
		Shipping:  inv.Shipping,
		Total:     inv.Total,
		Terms:     splitLines(inv.Terms),
		Notes:     splitLines(inv.Notes),
		BankInfo: document.BankInfo{
			BankName:      inv.BankName,
			AccountNumber: inv.BankAccountNumber,
			AccountName:   inv.BankAccountName,
		},
		PaidDate:         paidDate,
		PaidAmount:       paidAmount,
		PaymentReference: paymentRef,
		QuotationID:      softRefString(inv.QuotationID),
		QuotationNumber:  inv.QuotationNumber,
		ClientID:         softRefString(inv.ClientID),
		CompanyInfoID:    softRefString(inv.CompanyInfoID),
		BankInfoID:       softRefString(inv.BankInfoID),
	}
}
