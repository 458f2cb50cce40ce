package document

import (
	"fmt"
	"time"

	"github.com/labstack/gommon/random"
)

// DateFormat is the wire format for all document dates.
const DateFormat = "2006-01-02"

// Party is a point-in-time snapshot of an issuer or recipient. Once a
// document is saved, edits to the originating company/client record do not
// change it.
type Party struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	Address            string `json:"address"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	LogoURL            string `json:"logoUrl,omitempty"`
}

// LineItem is a single priced row on a quotation or invoice. LineTotal is
// derived and must always equal UnitPrice * Quantity.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"pricePerUnit"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	LineTotal   float64 `json:"total"`
}

// BankInfo holds payment details. Optional on quotations, mandatory and
// non-empty on invoices.
type BankInfo struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// QuotationData is the in-memory shape of a quotation draft. The three
// trailing ids are soft references used only to restore combobox selections
// when a draft is reloaded.
type QuotationData struct {
	QuotationNumber string     `json:"quotationNumber"`
	Date            string     `json:"date"`
	ValidUntil      string     `json:"validUntil"`
	ProjectTitle    string     `json:"projectTitle"`
	From            Party      `json:"from"`
	To              Party      `json:"to"`
	Items           []LineItem `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	Discount        float64    `json:"discount"`
	Tax             float64    `json:"tax"`
	Shipping        float64    `json:"shipping"`
	Total           float64    `json:"total"`
	Terms           []string   `json:"terms"`
	Notes           []string   `json:"notes"`
	BankInfo        BankInfo   `json:"bankInfo"`

	ClientID      string `json:"clientId,omitempty"`
	CompanyInfoID string `json:"companyInfoId,omitempty"`
	BankInfoID    string `json:"bankInfoId,omitempty"`
}

// InvoiceData is the in-memory shape of an invoice. BankInfo is mandatory.
type InvoiceData struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	PONumber      string        `json:"poNumber,omitempty"`
	InvoiceDate   string        `json:"invoiceDate"`
	DueDate       string        `json:"dueDate"`
	Status        InvoiceStatus `json:"status"`
	ProjectTitle  string        `json:"projectTitle"`
	From          Party         `json:"from"`
	To            Party         `json:"to"`
	Items         []LineItem    `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	SSTRate       float64       `json:"sstRate"`
	SSTAmount     float64       `json:"sstAmount"`
	Shipping      float64       `json:"shipping"`
	Total         float64       `json:"total"`
	Terms         []string      `json:"terms"`
	Notes         []string      `json:"notes"`
	BankInfo      BankInfo      `json:"bankInfo"`

	// Payment tracking
	PaidDate         string  `json:"paidDate,omitempty"`
	PaidAmount       float64 `json:"paidAmount,omitempty"`
	PaymentReference string  `json:"paymentReference,omitempty"`

	// Back-reference to the source quotation when derived from one
	QuotationID     string `json:"quotationId,omitempty"`
	QuotationNumber string `json:"quotationNumber,omitempty"`

	ClientID      string `json:"clientId,omitempty"`
	CompanyInfoID string `json:"companyInfoId,omitempty"`
	BankInfoID    string `json:"bankInfoId,omitempty"`
}

// DefaultInvoiceTerms seed new invoices and quotation-derived invoices.
var DefaultInvoiceTerms = []string{
	"Payment is due within 30 days of invoice date.",
	"Please include the invoice number as payment reference.",
}

// DueDateOffset is the default payment window applied when an invoice is
// created without an explicit due date.
const DueDateOffset = 30 * 24 * time.Hour

// NewQuotationData returns an empty draft with placeholder header values.
// The caller captures the baseline fingerprint after async defaults (the
// default company, for example) have been applied on top of this.
func NewQuotationData(number string, now time.Time) *QuotationData {
	return &QuotationData{
		QuotationNumber: number,
		Date:            now.Format(DateFormat),
		Items:           []LineItem{},
		Terms:           []string{},
		Notes:           []string{},
	}
}

// NewInvoiceData returns an empty invoice draft dated now with a due date
// 30 days out.
func NewInvoiceData(number string, now time.Time) *InvoiceData {
	return &InvoiceData{
		InvoiceNumber: number,
		InvoiceDate:   now.Format(DateFormat),
		DueDate:       now.Add(DueDateOffset).Format(DateFormat),
		Status:        InvoiceDraft,
		Items:         []LineItem{},
		Terms:         append([]string(nil), DefaultInvoiceTerms...),
		Notes:         []string{},
	}
}

// QuotationNumberFor formats a sequential quotation number.
func QuotationNumberFor(sequence int) string {
	return fmt.Sprintf("#QUO%06d", sequence)
}

// GenerateInvoiceNumber returns a random #INV- number. Invoice numbers are
// not sequential so gaps never leak how many invoices a user has issued.
func GenerateInvoiceNumber() string {
	return "#INV-" + random.String(6, random.Uppercase, random.Numeric)
}

// Clone returns a deep copy so a scheduled snapshot cannot be mutated by
// later edits.
func (d *QuotationData) Clone() *QuotationData {
	if d == nil {
		return nil
	}
	c := *d
	c.Items = append([]LineItem(nil), d.Items...)
	c.Terms = append([]string(nil), d.Terms...)
	c.Notes = append([]string(nil), d.Notes...)
	return &c
}

// Clone returns a deep copy of the invoice data.
func (d *InvoiceData) Clone() *InvoiceData {
	if d == nil {
		return nil
	}
	c := *d
	c.Items = append([]LineItem(nil), d.Items...)
	c.Terms = append([]string(nil), d.Terms...)
	c.Notes = append([]string(nil), d.Notes...)
	return &c
}
