package services

import (
	"context"
	"fmt"

	"quotabill/internal/common"
	"quotabill/internal/models"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

type CompanyService interface {
	Create(ctx context.Context, userID uuid.UUID, company *models.CompanyInfo) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.CompanyInfo, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.CompanyInfo, error)
	Update(ctx context.Context, userID uuid.UUID, company *models.CompanyInfo) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.CompanyInfo, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}

type companyService struct {
	companyRepo repositories.CompanyRepository
}

func NewCompanyService(companyRepo repositories.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (s *companyService) Create(ctx context.Context, userID uuid.UUID, company *models.CompanyInfo) error {
	if company.Name == "" {
		return fmt.Errorf("%w: company name is required", common.ErrValidation)
	}
	company.ID = uuid.New()
	company.UserID = userID
	if company.IsDefault {
		if err := s.companyRepo.ClearDefault(ctx, userID); err != nil {
			return err
		}
	}
	return s.companyRepo.Create(ctx, company)
}

func (s *companyService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.CompanyInfo, error) {
	return s.companyRepo.GetByID(ctx, userID, id)
}

func (s *companyService) GetDefault(ctx context.Context, userID uuid.UUID) (*models.CompanyInfo, error) {
	return s.companyRepo.GetDefault(ctx, userID)
}

func (s *companyService) Update(ctx context.Context, userID uuid.UUID, company *models.CompanyInfo) error {
	if company.Name == "" {
		return fmt.Errorf("%w: company name is required", common.ErrValidation)
	}
	company.UserID = userID
	if company.IsDefault {
		if err := s.companyRepo.ClearDefault(ctx, userID); err != nil {
			return err
		}
	}
	return s.companyRepo.Update(ctx, company)
}

func (s *companyService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.companyRepo.Delete(ctx, userID, id)
}

func (s *companyService) List(ctx context.Context, userID uuid.UUID) ([]*models.CompanyInfo, error) {
	return s.companyRepo.List(ctx, userID)
}

// SetDefault promotes one profile and demotes whichever held the flag.
func (s *companyService) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	company, err := s.companyRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.companyRepo.ClearDefault(ctx, userID); err != nil {
		return err
	}
	company.IsDefault = true
	return s.companyRepo.Update(ctx, company)
}
