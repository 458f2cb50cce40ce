package repositories

import (
	"context"
	"errors"

	"quotabill/internal/common"
	"quotabill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BankAccountRepository interface {
	Create(ctx context.Context, account *models.BankAccount) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.BankAccount, error)
	Update(ctx context.Context, account *models.BankAccount) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.BankAccount, error)
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}

type bankAccountRepo struct {
	db Database
}

func NewBankAccountRepo(db Database) BankAccountRepository {
	return &bankAccountRepo{db: db}
}

const bankAccountColumns = `id, user_id, bank_name, account_number, account_name, is_default, created_at, updated_at`

func (r *bankAccountRepo) Create(ctx context.Context, a *models.BankAccount) error {
	query := `
		INSERT INTO bank_info (id, user_id, bank_name, account_number, account_name, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, a.ID, a.UserID, a.BankName, a.AccountNumber, a.AccountName, a.IsDefault)
	return err
}

func (r *bankAccountRepo) scan(row pgx.Row) (*models.BankAccount, error) {
	a := &models.BankAccount{}
	err := row.Scan(&a.ID, &a.UserID, &a.BankName, &a.AccountNumber, &a.AccountName, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *bankAccountRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_info WHERE user_id = $1 AND id = $2`
	return r.scan(r.db.QueryRow(ctx, query, userID, id))
}

func (r *bankAccountRepo) Update(ctx context.Context, a *models.BankAccount) error {
	query := `
		UPDATE bank_info
		SET bank_name = $1, account_number = $2, account_name = $3, is_default = $4, updated_at = NOW()
		WHERE user_id = $5 AND id = $6
	`
	tag, err := r.db.Exec(ctx, query, a.BankName, a.AccountNumber, a.AccountName, a.IsDefault, a.UserID, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *bankAccountRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM bank_info WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *bankAccountRepo) List(ctx context.Context, userID uuid.UUID) ([]*models.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_info WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.BankAccount
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *bankAccountRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE bank_info SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
