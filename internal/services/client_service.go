package services

import (
	"context"
	"fmt"

	"quotabill/internal/common"
	"quotabill/internal/models"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

type ClientService interface {
	Create(ctx context.Context, userID uuid.UUID, client *models.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, userID uuid.UUID, client *models.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.Client, error)
}

type clientService struct {
	clientRepo repositories.ClientRepository
}

func NewClientService(clientRepo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) Create(ctx context.Context, userID uuid.UUID, client *models.Client) error {
	if client.Name == "" {
		return fmt.Errorf("%w: client name is required", common.ErrValidation)
	}
	client.ID = uuid.New()
	client.UserID = userID
	return s.clientRepo.Create(ctx, client)
}

func (s *clientService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, userID, id)
}

func (s *clientService) Update(ctx context.Context, userID uuid.UUID, client *models.Client) error {
	if client.Name == "" {
		return fmt.Errorf("%w: client name is required", common.ErrValidation)
	}
	client.UserID = userID
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.clientRepo.Delete(ctx, userID, id)
}

func (s *clientService) List(ctx context.Context, userID uuid.UUID) ([]*models.Client, error) {
	return s.clientRepo.List(ctx, userID)
}
