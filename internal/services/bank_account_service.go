package services

import (
	"context"

	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/models"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

type BankAccountService interface {
	Create(ctx context.Context, userID uuid.UUID, account *models.BankAccount) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.BankAccount, error)
	Update(ctx context.Context, userID uuid.UUID, account *models.BankAccount) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.BankAccount, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}

type bankAccountService struct {
	bankRepo repositories.BankAccountRepository
}

func NewBankAccountService(bankRepo repositories.BankAccountRepository) BankAccountService {
	return &bankAccountService{bankRepo: bankRepo}
}

func (s *bankAccountService) validate(account *models.BankAccount) error {
	info := document.BankInfo{
		BankName:      account.BankName,
		AccountNumber: account.AccountNumber,
		AccountName:   account.AccountName,
	}
	if err := document.ValidateBankInfo(info); err != nil {
		return common.ValidationError(err)
	}
	return nil
}

func (s *bankAccountService) Create(ctx context.Context, userID uuid.UUID, account *models.BankAccount) error {
	if err := s.validate(account); err != nil {
		return err
	}
	account.ID = uuid.New()
	account.UserID = userID
	if account.IsDefault {
		if err := s.bankRepo.ClearDefault(ctx, userID); err != nil {
			return err
		}
	}
	return s.bankRepo.Create(ctx, account)
}

func (s *bankAccountService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.BankAccount, error) {
	return s.bankRepo.GetByID(ctx, userID, id)
}

func (s *bankAccountService) Update(ctx context.Context, userID uuid.UUID, account *models.BankAccount) error {
	if err := s.validate(account); err != nil {
		return err
	}
	account.UserID = userID
	if account.IsDefault {
		if err := s.bankRepo.ClearDefault(ctx, userID); err != nil {
			return err
		}
	}
	return s.bankRepo.Update(ctx, account)
}

func (s *bankAccountService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.bankRepo.Delete(ctx, userID, id)
}

func (s *bankAccountService) List(ctx context.Context, userID uuid.UUID) ([]*models.BankAccount, error) {
	return s.bankRepo.List(ctx, userID)
}

func (s *bankAccountService) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	account, err := s.bankRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.bankRepo.ClearDefault(ctx, userID); err != nil {
		return err
	}
	account.IsDefault = true
	return s.bankRepo.Update(ctx, account)
}
