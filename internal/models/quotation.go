package models

import (
	"time"

	"github.com/google/uuid"

	"quotabill/internal/document"
)

// Quotation is the flat storage row for a quotation. Party snapshots are
// flattened to prefixed columns; items are an embedded JSONB array opaque to
// the relational layer; terms and notes are newline-joined text.
type Quotation struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	QuotationNumber string     `json:"quotation_number" db:"quotation_number"`
	Date            time.Time  `json:"date" db:"date"`
	ValidUntil      *time.Time `json:"valid_until" db:"valid_until"`
	ProjectTitle    string     `json:"project_title" db:"project_title"`

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
	TaxAmount     float64             `json:"tax_amount" db:"tax_amount"`
	Shipping      float64             `json:"shipping" db:"shipping"`
	Total         float64             `json:"total" db:"total"`

	Terms string `json:"terms" db:"terms"`
	Notes string `json:"notes" db:"notes"`

	BankName          string     `json:"bank_name" db:"bank_name"`
	BankAccountNumber string     `json:"bank_account_number" db:"bank_account_number"`
	BankAccountName   string     `json:"bank_account_name" db:"bank_account_name"`
	BankInfoID        *uuid.UUID `json:"bank_info_id" db:"bank_info_id"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// QuotationSummary is the lightweight registry entry used for draft
// listings. It is always derived from the full row, never independently
// authoritative.
type QuotationSummary struct {
	ID              uuid.UUID `json:"id"`
	QuotationNumber string    `json:"quotation_number"`
	ProjectTitle    string    `json:"project_title"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Summary derives the registry entry for this quotation.
func (q *Quotation) Summary() QuotationSummary {
	title := q.ProjectTitle
	if title == "" {
		title = "Untitled"
	}
	return QuotationSummary{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ProjectTitle:    title,
		UpdatedAt:       q.UpdatedAt,
	}
}
