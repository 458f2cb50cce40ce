package repositories

import (
	"context"
	"errors"

	"quotabill/internal/common"
	"quotabill/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.CompanyInfo) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.CompanyInfo, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.CompanyInfo, error)
	Update(ctx context.Context, company *models.CompanyInfo) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.CompanyInfo, error)
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}

type companyRepo struct {
	db Database
}

func NewCompanyRepo(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, user_id, name, registration_number, address, email, phone, logo_url, is_default, created_at, updated_at`

func (r *companyRepo) Create(ctx context.Context, c *models.CompanyInfo) error {
	query := `
		INSERT INTO company_info (id, user_id, name, registration_number, address, email, phone, logo_url, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.Name, c.RegistrationNumber, c.Address, c.Email, c.Phone, c.LogoURL, c.IsDefault)
	return err
}

func (r *companyRepo) scan(row pgx.Row) (*models.CompanyInfo, error) {
	c := &models.CompanyInfo{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.RegistrationNumber, &c.Address, &c.Email, &c.Phone, &c.LogoURL, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *companyRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.CompanyInfo, error) {
	query := `SELECT ` + companyColumns + ` FROM company_info WHERE user_id = $1 AND id = $2`
	return r.scan(r.db.QueryRow(ctx, query, userID, id))
}

func (r *companyRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*models.CompanyInfo, error) {
	query := `SELECT ` + companyColumns + ` FROM company_info WHERE user_id = $1 AND is_default = TRUE LIMIT 1`
	return r.scan(r.db.QueryRow(ctx, query, userID))
}

func (r *companyRepo) Update(ctx context.Context, c *models.CompanyInfo) error {
	query := `
		UPDATE company_info
		SET name = $1, registration_number = $2, address = $3, email = $4, phone = $5, logo_url = $6, is_default = $7, updated_at = NOW()
		WHERE user_id = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, c.Name, c.RegistrationNumber, c.Address, c.Email, c.Phone, c.LogoURL, c.IsDefault, c.UserID, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *companyRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM company_info WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *companyRepo) List(ctx context.Context, userID uuid.UUID) ([]*models.CompanyInfo, error) {
	query := `SELECT ` + companyColumns + ` FROM company_info WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.CompanyInfo
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ClearDefault unsets the default flag on all of the user's profiles, run
// before promoting another one.
func (r *companyRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE company_info SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
