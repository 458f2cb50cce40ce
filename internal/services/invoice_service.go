package services

import (
	"context"
	"fmt"
	"time"

	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/models"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

type InvoiceService interface {
	// Save upserts an invoice. Bank details are mandatory and checked
	// before any storage call.
	Save(ctx context.Context, userID uuid.UUID, id *uuid.UUID, data *document.InvoiceData) (uuid.UUID, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error)
	Load(ctx context.Context, userID, id uuid.UUID) (*document.InvoiceData, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListForQuotation(ctx context.Context, userID, quotationID uuid.UUID) ([]*models.Invoice, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status document.InvoiceStatus) error
	MarkPaid(ctx context.Context, userID, id uuid.UUID, paidDate time.Time, paidAmount float64, reference string) error

	// CreateFromQuotation derives a fresh draft invoice from an accepted
	// quotation, copying its content and recording the back-reference.
	CreateFromQuotation(ctx context.Context, userID, quotationID uuid.UUID, input FromQuotationInput) (*models.Invoice, error)
}

// FromQuotationInput carries the operator-selected fields for deriving an
// invoice. Bank details are mandatory on invoices while quotations may not
// carry any, so the caller always supplies them.
type FromQuotationInput struct {
	BankInfo   document.BankInfo
	BankInfoID string
	PONumber   string
}

type invoiceService struct {
	invoiceRepo   repositories.InvoiceRepository
	quotationRepo repositories.QuotationRepository
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, quotationRepo repositories.QuotationRepository) InvoiceService {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
	}
}

func (s *invoiceService) Save(ctx context.Context, userID uuid.UUID, id *uuid.UUID, data *document.InvoiceData) (uuid.UUID, error) {
	if err := data.Validate(); err != nil {
		return uuid.Nil, common.ValidationError(err)
	}
	if err := data.ApplyTotals(); err != nil {
		return uuid.Nil, common.ValidationError(err)
	}

	if id == nil {
		newID := uuid.New()
		record, err := InvoiceToRecord(userID, newID, data)
		if err != nil {
			return uuid.Nil, common.ValidationError(err)
		}
		record.Status = string(document.InvoiceDraft)
		if err := s.invoiceRepo.Create(ctx, record); err != nil {
			return uuid.Nil, err
		}
		return newID, nil
	}

	existing, err := s.invoiceRepo.GetByID(ctx, userID, *id)
	if err != nil {
		return uuid.Nil, err
	}
	record, err := InvoiceToRecord(userID, *id, data)
	if err != nil {
		return uuid.Nil, common.ValidationError(err)
	}
	record.Status = existing.Status
	if err := s.invoiceRepo.Update(ctx, record); err != nil {
		return uuid.Nil, err
	}
	return *id, nil
}

func (s *invoiceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, userID, id)
}

func (s *invoiceService) Load(ctx context.Context, userID, id uuid.UUID) (*document.InvoiceData, error) {
	record, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return RecordToInvoice(record), nil
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, userID, limit, offset)
}

// ListForQuotation returns the invoices derived from a quotation, so the
// quotation view can link to them.
func (s *invoiceService) ListForQuotation(ctx context.Context, userID, quotationID uuid.UUID) ([]*models.Invoice, error) {
	return s.invoiceRepo.GetByQuotationID(ctx, userID, quotationID)
}

func (s *invoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, userID, id)
}

func (s *invoiceService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status document.InvoiceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid invoice status", common.ErrValidation)
	}
	current, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if !document.CanTransitionInvoice(document.InvoiceStatus(current.Status), status) {
		return fmt.Errorf("%w: cannot transition invoice from %s to %s", common.ErrValidation, current.Status, status)
	}
	return s.invoiceRepo.UpdateStatus(ctx, userID, id, string(status))
}

func (s *invoiceService) MarkPaid(ctx context.Context, userID, id uuid.UUID, paidDate time.Time, paidAmount float64, reference string) error {
	if paidAmount < 0 {
		return fmt.Errorf("%w: paid amount cannot be negative", common.ErrValidation)
	}
	current, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if !document.CanTransitionInvoice(document.InvoiceStatus(current.Status), document.InvoicePaid) {
		return fmt.Errorf("%w: cannot mark %s invoice as paid", common.ErrValidation, current.Status)
	}

	current.Status = string(document.InvoicePaid)
	current.PaidDate = &paidDate
	current.PaidAmount = &paidAmount
	if reference != "" {
		current.PaymentReference = &reference
	}
	return s.invoiceRepo.Update(ctx, current)
}

func (s *invoiceService) CreateFromQuotation(ctx context.Context, userID, quotationID uuid.UUID, input FromQuotationInput) (*models.Invoice, error) {
	if err := document.ValidateBankInfo(input.BankInfo); err != nil {
		return nil, common.ValidationError(err)
	}

	q, err := s.quotationRepo.GetByID(ctx, userID, quotationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	due := now.Add(document.DueDateOffset)

	inv := &models.Invoice{
		ID:            uuid.New(),
		UserID:        userID,
		InvoiceNumber: document.GenerateInvoiceNumber(),
		PONumber:      input.PONumber,
		InvoiceDate:   now,
		DueDate:       due,
		Status:        string(document.InvoiceDraft),
		ProjectTitle:  q.ProjectTitle,

		FromCompanyName:         q.FromCompanyName,
		FromCompanyRegistration: q.FromCompanyRegistration,
		FromCompanyAddress:      q.FromCompanyAddress,
		FromCompanyEmail:        q.FromCompanyEmail,
		FromCompanyPhone:        q.FromCompanyPhone,
		FromCompanyLogoURL:      q.FromCompanyLogoURL,
		CompanyInfoID:           q.CompanyInfoID,

		ClientName:    q.ClientName,
		ClientCompany: q.ClientCompany,
		ClientAddress: q.ClientAddress,
		ClientEmail:   q.ClientEmail,
		ClientPhone:   q.ClientPhone,
		ClientID:      q.ClientID,

		// SST starts at zero on a derived invoice, so the total is the
		// quotation's total minus its tax.
		Items:         append([]document.LineItem{}, q.Items...),
		Subtotal:      q.Subtotal,
		DiscountValue: q.DiscountValue,
		SSTRate:       0,
		SSTAmount:     0,
		Shipping:      q.Shipping,
		Total:         document.Round2(q.Subtotal - q.DiscountValue + q.Shipping),

		Terms: joinLines(document.DefaultInvoiceTerms),
		Notes: q.Notes,

		BankName:          input.BankInfo.BankName,
		BankAccountNumber: input.BankInfo.AccountNumber,
		BankAccountName:   input.BankInfo.AccountName,
		BankInfoID:        softRef(input.BankInfoID),

		QuotationID:     &q.ID,
		QuotationNumber: q.QuotationNumber,
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
