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
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories need. pgxmock
// satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type QuotationRepository interface {
	Create(ctx context.Context, quotation *models.Quotation) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Quotation, error)
	Update(ctx context.Context, quotation *models.Quotation) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Quotation, error)
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]*models.Quotation, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error
	NextSequence(ctx context.Context, userID uuid.UUID) (int, error)
}

type quotationRepo struct {
	db Database
}

func NewQuotationRepo(db Database) QuotationRepository {
	return &quotationRepo{db: db}
}

const quotationColumns = `id, user_id, quotation_number, date, valid_until, project_title,
		from_company_name, from_company_registration, from_company_address, from_company_email, from_company_phone, from_company_logo_url, company_info_id,
		client_name, client_company, client_address, client_email, client_phone, client_id,
		items, subtotal, discount_value, tax_amount, shipping, total,
		terms, notes, bank_name, bank_account_number, bank_account_name, bank_info_id,
		status, created_at, updated_at`

func (r *quotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	itemsJSON, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		INSERT INTO quotations (id, user_id, quotation_number, date, valid_until, project_title,
			from_company_name, from_company_registration, from_company_address, from_company_email, from_company_phone, from_company_logo_url, company_info_id,
			client_name, client_company, client_address, client_email, client_phone, client_id,
			items, subtotal, discount_value, tax_amount, shipping, total,
			terms, notes, bank_name, bank_account_number, bank_account_name, bank_info_id,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query,
		q.ID, q.UserID, q.QuotationNumber, q.Date, q.ValidUntil, q.ProjectTitle,
		q.FromCompanyName, q.FromCompanyRegistration, q.FromCompanyAddress, q.FromCompanyEmail, q.FromCompanyPhone, q.FromCompanyLogoURL, q.CompanyInfoID,
		q.ClientName, q.ClientCompany, q.ClientAddress, q.ClientEmail, q.ClientPhone, q.ClientID,
		itemsJSON, q.Subtotal, q.DiscountValue, q.TaxAmount, q.Shipping, q.Total,
		q.Terms, q.Notes, q.BankName, q.BankAccountNumber, q.BankAccountName, q.BankInfoID,
		q.Status)
	return err
}

func (r *quotationRepo) scanQuotation(row pgx.Row) (*models.Quotation, error) {
	q := &models.Quotation{}
	var itemsJSON []byte
	err := row.Scan(&q.ID, &q.UserID, &q.QuotationNumber, &q.Date, &q.ValidUntil, &q.ProjectTitle,
		&q.FromCompanyName, &q.FromCompanyRegistration, &q.FromCompanyAddress, &q.FromCompanyEmail, &q.FromCompanyPhone, &q.FromCompanyLogoURL, &q.CompanyInfoID,
		&q.ClientName, &q.ClientCompany, &q.ClientAddress, &q.ClientEmail, &q.ClientPhone, &q.ClientID,
		&itemsJSON, &q.Subtotal, &q.DiscountValue, &q.TaxAmount, &q.Shipping, &q.Total,
		&q.Terms, &q.Notes, &q.BankName, &q.BankAccountNumber, &q.BankAccountName, &q.BankInfoID,
		&q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &q.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	if q.Items == nil {
		q.Items = []document.LineItem{}
	}
	return q, nil
}

func (r *quotationRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Quotation, error) {
	query := `
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE user_id = $1 AND id = $2
	`
	return r.scanQuotation(r.db.QueryRow(ctx, query, userID, id))
}

func (r *quotationRepo) Update(ctx context.Context, q *models.Quotation) error {
	itemsJSON, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	query := `
		UPDATE quotations
		SET quotation_number = $1, date = $2, valid_until = $3, project_title = $4,
			from_company_name = $5, from_company_registration = $6, from_company_address = $7, from_company_email = $8, from_company_phone = $9, from_company_logo_url = $10, company_info_id = $11,
			client_name = $12, client_company = $13, client_address = $14, client_email = $15, client_phone = $16, client_id = $17,
			items = $18, subtotal = $19, discount_value = $20, tax_amount = $21, shipping = $22, total = $23,
			terms = $24, notes = $25, bank_name = $26, bank_account_number = $27, bank_account_name = $28, bank_info_id = $29,
			status = $30, updated_at = NOW()
		WHERE user_id = $31 AND id = $32
	`
	tag, err := r.db.Exec(ctx, query,
		q.QuotationNumber, q.Date, q.ValidUntil, q.ProjectTitle,
		q.FromCompanyName, q.FromCompanyRegistration, q.FromCompanyAddress, q.FromCompanyEmail, q.FromCompanyPhone, q.FromCompanyLogoURL, q.CompanyInfoID,
		q.ClientName, q.ClientCompany, q.ClientAddress, q.ClientEmail, q.ClientPhone, q.ClientID,
		itemsJSON, q.Subtotal, q.DiscountValue, q.TaxAmount, q.Shipping, q.Total,
		q.Terms, q.Notes, q.BankName, q.BankAccountNumber, q.BankAccountName, q.BankInfoID,
		q.Status, q.UserID, q.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete is idempotent: deleting an already-deleted quotation is not an
// error.
func (r *quotationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM quotations WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *quotationRepo) list(ctx context.Context, query string, args ...any) ([]*models.Quotation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotations []*models.Quotation
	for rows.Next() {
		q, err := r.scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, q)
	}
	return quotations, rows.Err()
}

func (r *quotationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Quotation, error) {
	query := `
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *quotationRepo) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*models.Quotation, error) {
	query := `
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE user_id = $1 AND status = 'draft'
		ORDER BY updated_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *quotationRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	query := `
		UPDATE quotations
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

// NextSequence returns the next sequential quotation number for the user.
func (r *quotationRepo) NextSequence(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) + 1 FROM quotations WHERE user_id = $1`
	var next int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}
