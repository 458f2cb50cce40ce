package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	GetByQuotationID(ctx context.Context, userID, quotationID uuid.UUID) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, user_id, invoice_number, po_number, invoice_date, due_date, status, project_title,
		from_company_name, from_company_registration, from_company_address, from_company_email, from_company_phone, from_company_logo_url, company_info_id,
		client_name, client_company, client_address, client_email, client_phone, client_id,
		items, subtotal, discount_value, sst_rate, sst_amount, shipping, total,
		terms, notes, bank_name, bank_account_number, bank_account_name, bank_info_id,
		paid_date, paid_amount, payment_reference, quotation_id, quotation_number,
		created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, po_number, invoice_date, due_date, status, project_title,
			from_company_name, from_company_registration, from_company_address, from_company_email, from_company_phone, from_company_logo_url, company_info_id,
			client_name, client_company, client_address, client_email, client_phone, client_id,
			items, subtotal, discount_value, sst_rate, sst_amount, shipping, total,
			terms, notes, bank_name, bank_account_number, bank_account_name, bank_info_id,
			paid_date, paid_amount, payment_reference, quotation_id, quotation_number,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query,
		inv.ID, inv.UserID, inv.InvoiceNumber, inv.PONumber, inv.InvoiceDate, inv.DueDate, inv.Status, inv.ProjectTitle,
		inv.FromCompanyName, inv.FromCompanyRegistration, inv.FromCompanyAddress, inv.FromCompanyEmail, inv.FromCompanyPhone, inv.FromCompanyLogoURL, inv.CompanyInfoID,
		inv.ClientName, inv.ClientCompany, inv.ClientAddress, inv.ClientEmail, inv.ClientPhone, inv.ClientID,
		itemsJSON, inv.Subtotal, inv.DiscountValue, inv.SSTRate, inv.SSTAmount, inv.Shipping, inv.Total,
		inv.Terms, inv.Notes, inv.BankName, inv.BankAccountNumber, inv.BankAccountName, inv.BankInfoID,
		inv.PaidDate, inv.PaidAmount, inv.PaymentReference, inv.QuotationID, inv.QuotationNumber)
	return err
}

func (r *invoiceRepo) scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var itemsJSON []byte
	err := row.Scan(&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.PONumber, &inv.InvoiceDate, &inv.DueDate, &inv.Status, &inv.ProjectTitle,
		&inv.FromCompanyName, &inv.FromCompanyRegistration, &inv.FromCompanyAddress, &inv.FromCompanyEmail, &inv.FromCompanyPhone, &inv.FromCompanyLogoURL, &inv.CompanyInfoID,
		&inv.ClientName, &inv.ClientCompany, &inv.ClientAddress, &inv.ClientEmail, &inv.ClientPhone, &inv.ClientID,
		&itemsJSON, &inv.Subtotal, &inv.DiscountValue, &inv.SSTRate, &inv.SSTAmount, &inv.Shipping, &inv.Total,
		&inv.Terms, &inv.Notes, &inv.BankName, &inv.BankAccountNumber, &inv.BankAccountName, &inv.BankInfoID,
		&inv.PaidDate, &inv.PaidAmount, &inv.PaymentReference, &inv.QuotationID, &inv.QuotationNumber,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	if inv.Items == nil {
		inv.Items = []document.LineItem{}
	}
	return inv, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND id = $2
	`
	return r.scanInvoice(r.db.QueryRow(ctx, query, userID, id))
}

func (r *invoiceRepo) Update(ctx context.Context, inv *models.Invoice) error {
	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		UPDATE invoices
		SET invoice_number = $1, po_number = $2, invoice_date = $3, due_date = $4, status = $5, project_title = $6,
			from_company_name = $7, from_company_registration = $8, from_company_address = $9, from_company_email = $10, from_company_phone = $11, from_company_logo_url = $12, company_info_id = $13,
			client_name = $14, client_company = $15, client_address = $16, client_email = $17, client_phone = $18, client_id = $19,
			items = $20, subtotal = $21, discount_value = $22, sst_rate = $23, sst_amount = $24, shipping = $25, total = $26,
			terms = $27, notes = $28, bank_name = $29, bank_account_number = $30, bank_account_name = $31, bank_info_id = $32,
			paid_date = $33, paid_amount = $34, payment_reference = $35, quotation_id = $36, quotation_number = $37,
			updated_at = NOW()
		WHERE user_id = $38 AND id = $39
	`
	tag, err := r.db.Exec(ctx, query,
		inv.InvoiceNumber, inv.PONumber, inv.InvoiceDate, inv.DueDate, inv.Status, inv.ProjectTitle,
		inv.FromCompanyName, inv.FromCompanyRegistration, inv.FromCompanyAddress, inv.FromCompanyEmail, inv.FromCompanyPhone, inv.FromCompanyLogoURL, inv.CompanyInfoID,
		inv.ClientName, inv.ClientCompany, inv.ClientAddress, inv.ClientEmail, inv.ClientPhone, inv.ClientID,
		itemsJSON, inv.Subtotal, inv.DiscountValue, inv.SSTRate, inv.SSTAmount, inv.Shipping, inv.Total,
		inv.Terms, inv.Notes, inv.BankName, inv.BankAccountNumber, inv.BankAccountName, inv.BankInfoID,
		inv.PaidDate, inv.PaidAmount, inv.PaymentReference, inv.QuotationID, inv.QuotationNumber,
		inv.UserID, inv.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete is idempotent: deleting an already-deleted invoice is not an error.
func (r *invoiceRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *invoiceRepo) list(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		ORDER BY invoice_date DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *invoiceRepo) GetByQuotationID(ctx context.Context, userID, quotationID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND quotation_id = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID, quotationID)
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, status, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
