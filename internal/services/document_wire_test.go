package services

import (
	"testing"
	"time"

	"quotabill/internal/document"
	"quotabill/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireQuotation() *document.QuotationData {
	return &document.QuotationData{
		QuotationNumber: "#QUO000007",
		Date:            "2024-05-10",
		ValidUntil:      "2024-06-10",
		ProjectTitle:    "Office renovation",
		From: document.Party{
			Name:               "Acme Sdn Bhd",
			RegistrationNumber: "201901234567",
			Address:            "1 Jalan Besar",
			Email:              "billing@acme.example",
			Phone:              "+60 3-1234 5678",
			LogoURL:            "acme/logo.png",
		},
		To: document.Party{
			Name:    "Beta Traders",
			Address: "2 Jalan Kecil",
			Email:   "ap@beta.example",
		},
		Items: []document.LineItem{
			{ID: "1", Description: "Partition walls", UnitPrice: 150, Quantity: 4, Unit: "panel", LineTotal: 600},
			{ID: "2", Description: "Labour", UnitPrice: 80, Quantity: 10, Unit: "hour", LineTotal: 800},
		},
		Subtotal: 1400,
		Discount: 100,
		Tax:      78,
		Shipping: 0,
		Total:    1378,
		Terms:    []string{"50% deposit on confirmation", "Balance on completion"},
		Notes:    []string{"Site access required on weekends"},
		BankInfo: document.BankInfo{
			BankName:      "Maybank",
			AccountNumber: "512345678901",
			AccountName:   "Acme Sdn Bhd",
		},
		ClientID:      uuid.New().String(),
		CompanyInfoID: uuid.New().String(),
		BankInfoID:    uuid.New().String(),
	}
}

func TestQuotationWireRoundTrip(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	original := wireQuotation()

	record, err := QuotationToRecord(userID, id, original)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, "50% deposit on confirmation\nBalance on completion", record.Terms)

	back := RecordToQuotation(record)
	assert.Equal(t, original, back)
}

func TestQuotationToRecord_FlattensParties(t *testing.T) {
	record, err := QuotationToRecord(uuid.New(), uuid.New(), wireQuotation())
	require.NoError(t, err)

	assert.Equal(t, "Acme Sdn Bhd", record.FromCompanyName)
	assert.Equal(t, "201901234567", record.FromCompanyRegistration)
	assert.Equal(t, "Beta Traders", record.ClientName)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), record.Date)
	require.NotNil(t, record.ValidUntil)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), *record.ValidUntil)
}

func TestQuotationToRecord_BlankNumberGetsDraftFallback(t *testing.T) {
	d := wireQuotation()
	d.QuotationNumber = ""

	record, err := QuotationToRecord(uuid.New(), uuid.New(), d)
	require.NoError(t, err)
	assert.Regexp(t, `^DRAFT-\d+$`, record.QuotationNumber)
}

func TestQuotationToRecord_InvalidDateRejected(t *testing.T) {
	d := wireQuotation()
	d.Date = "10/05/2024"

	_, err := QuotationToRecord(uuid.New(), uuid.New(), d)
	assert.Error(t, err)
}

func TestQuotationToRecord_MalformedSoftRefDropped(t *testing.T) {
	d := wireQuotation()
	d.ClientID = "not-a-uuid"

	record, err := QuotationToRecord(uuid.New(), uuid.New(), d)
	require.NoError(t, err)
	assert.Nil(t, record.ClientID)
}

func TestSplitLines_DropsBlankEntries(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\n\nb"))
	assert.Equal(t, []string{}, splitLines(""))
	assert.Equal(t, []string{"only"}, splitLines("only"))
}

func TestInvoiceWireRoundTrip(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	quotationID := uuid.New()

	original := &document.InvoiceData{
		InvoiceNumber: "#INV-A1B2C3",
		PONumber:      "PO-9981",
		InvoiceDate:   "2024-05-20",
		DueDate:       "2024-06-19",
		Status:        document.InvoiceSent,
		ProjectTitle:  "Office renovation",
		From:          document.Party{Name: "Acme Sdn Bhd"},
		To:            document.Party{Name: "Beta Traders"},
		Items: []document.LineItem{
			{ID: "1", Description: "Partition walls", UnitPrice: 150, Quantity: 4, Unit: "panel", LineTotal: 600},
		},
		Subtotal:  600,
		SSTRate:   6,
		SSTAmount: 36,
		Total:     636,
		Terms:     []string{"Payment is due within 30 days of invoice date."},
		Notes:     []string{},
		BankInfo: document.BankInfo{
			BankName:      "Maybank",
			AccountNumber: "512345678901",
			AccountName:   "Acme Sdn Bhd",
		},
		PaidDate:         "2024-06-01",
		PaidAmount:       636,
		PaymentReference: "TXN-5521",
		QuotationID:      quotationID.String(),
		QuotationNumber:  "#QUO000007",
	}

	record, err := InvoiceToRecord(userID, id, original)
	require.NoError(t, err)
	require.NotNil(t, record.QuotationID)
	assert.Equal(t, quotationID, *record.QuotationID)
	require.NotNil(t, record.PaidAmount)
	assert.Equal(t, 636.0, *record.PaidAmount)

	back := RecordToInvoice(record)
	assert.Equal(t, original, back)
}

func TestRecordToInvoice_NilOptionalsBecomeZeroValues(t *testing.T) {
	inv := &models.Invoice{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		InvoiceNumber: "#INV-XYZ123",
		InvoiceDate:   time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 6, 19, 0, 0, 0, 0, time.UTC),
		Status:        "draft",
	}

	data := RecordToInvoice(inv)
	assert.Empty(t, data.PaidDate)
	assert.Zero(t, data.PaidAmount)
	assert.Empty(t, data.PaymentReference)
	assert.Empty(t, data.QuotationID)
	assert.Equal(t, []string{}, data.Terms)
}
