package models

import (
	"time"

	"github.com/google/uuid"

	"quotabill/internal/document"
)

// Invoice is the flat storage row for an invoice. Same flattening rules as
// Quotation, plus payment tracking and the back-reference to the source
// quotation when the invoice was derived from one.
type Invoice struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	InvoiceNumber string    `json:"invoice_number" db:"invoice_number"`
	PONumber      string    `json:"po_number" db:"po_number"`
	InvoiceDate   time.Time `json:"invoice_date" db:"invoice_date"`
	DueDate       time.Time `json:"due_date" db:"due_date"`
	Status        string    `json:"status" db:"status"`
	ProjectTitle  string    `json:"project_title" db:"project_title"`

	FromCompanyName         string     `json:"from_company_name" db:"from_company_name"`
	FromCompanyRegistration string     `json:"from_company_registration" db:"from_company_registration"`
	FromCompanyAddress      string     `json:"from_company_address" db:"from_company_address"`
	FromCompanyEmail        string     `json:"from_company_email" db:"from_company_email"`
	FromCompanyPhone        string     `json:"from_company_phone" db:"from_company_phone"`
	FromCompanyLogoURL      string     `json:"from_company_logo_url" db:"from_company_logo_url"`
	CompanyInfoID           *uuid.UUID `json:"company_info_id" db:"company_info_id"`

	ClientName    string     `json:"client_name" db:"client_name"`
	ClientCompany string     `json:"client_company" db:"client_company"`
	ClientAddress string     `json:"client_address" db:"client_address"`
	ClientEmail   string     `json:"client_email" db:"client_email"`
	ClientPhone   string     `json:"client_phone" db:"client_phone"`
	ClientID      *uuid.UUID `json:"client_id" db:"client_id"`

	Items         []document.LineItem `json:"items" db:"items"`
	Subtotal      float64             `json:"subtotal" db:"subtotal"`
	DiscountValue float64             `json:"discount_value" db:"discount_value"`
	SSTRate       float64             `json:"sst_rate" db:"sst_rate"`
	SSTAmount     float64             `json:"sst_amount" db:"sst_amount"`
	Shipping      float64             `json:"shipping" db:"shipping"`
	Total         float64             `json:"total" db:"total"`

	Terms string `json:"terms" db:"terms"`
	Notes string `json:"notes" db:"notes"`

	BankName          string     `json:"bank_name" db:"bank_name"`
	BankAccountNumber string     `json:"bank_account_number" db:"bank_account_number"`
	BankAccountName   string     `json:"bank_account_name" db:"bank_account_name"`
	BankInfoID        *uuid.UUID `json:"bank_info_id" db:"bank_info_id"`

	PaidDate         *time.Time `json:"paid_date" db:"paid_date"`
	PaidAmount       *float64   `json:"paid_amount" db:"paid_amount"`
	PaymentReference *string    `json:"payment_reference" db:"payment_reference"`

	QuotationID     *uuid.UUID `json:"quotation_id" db:"quotation_id"`
	QuotationNumber string     `json:"quotation_number" db:"quotation_number"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InvoiceSummary is the listing shape for invoices.
type InvoiceSummary struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	PONumber      string     `json:"po_number"`
	ProjectTitle  string     `json:"project_title"`
	ClientName    string     `json:"client_name"`
	Total         float64    `json:"total"`
	Status        string     `json:"status"`
	InvoiceDate   time.Time  `json:"invoice_date"`
	DueDate       time.Time  `json:"due_date"`
	PaidDate      *time.Time `json:"paid_date"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Summary derives the listing entry for this invoice.
func (i *Invoice) Summary() InvoiceSummary {
	title := i.ProjectTitle
	if title == "" {
		title = "Untitled"
	}
	return InvoiceSummary{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		PONumber:      i.PONumber,
		ProjectTitle:  title,
		ClientName:    i.ClientName,
		Total:         i.Total,
		Status:        i.Status,
		InvoiceDate:   i.InvoiceDate,
		DueDate:       i.DueDate,
		PaidDate:      i.PaidDate,
		UpdatedAt:     i.UpdatedAt,
	}
}
