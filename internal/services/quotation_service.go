package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"quotabill/internal/caching"
	"quotabill/internal/common"
	"quotabill/internal/document"
	"quotabill/internal/models"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

const draftCacheTTL = 5 * time.Minute

type QuotationService interface {
	// SaveDraft upserts a draft. A nil id creates a new row and returns its
	// identity; a non-nil id updates the existing row.
	SaveDraft(ctx context.Context, userID uuid.UUID, id *uuid.UUID, data *document.QuotationData) (uuid.UUID, error)
	LoadDraft(ctx context.Context, userID, id uuid.UUID) (*document.QuotationData, error)
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]models.QuotationSummary, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Quotation, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Quotation, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status document.QuotationStatus) error
	NextNumber(ctx context.Context, userID uuid.UUID) (string, error)
}

type quotationService struct {
	quotationRepo repositories.QuotationRepository
	cache         caching.CacheService
}

func NewQuotationService(quotationRepo repositories.QuotationRepository, cache caching.CacheService) QuotationService {
	return &quotationService{
		quotationRepo: quotationRepo,
		cache:         cache,
	}
}

func (s *quotationService) SaveDraft(ctx context.Context, userID uuid.UUID, id *uuid.UUID, data *document.QuotationData) (uuid.UUID, error) {
	if err := data.Validate(); err != nil {
		return uuid.Nil, common.ValidationError(err)
	}
	if err := data.ApplyTotals(); err != nil {
		return uuid.Nil, common.ValidationError(err)
	}

	if id == nil {
		newID := uuid.New()
		record, err := QuotationToRecord(userID, newID, data)
		if err != nil {
			return uuid.Nil, common.ValidationError(err)
		}
		record.Status = string(document.QuotationDraft)
		if err := s.quotationRepo.Create(ctx, record); err != nil {
			return uuid.Nil, err
		}
		s.invalidateDrafts(ctx, userID)
		return newID, nil
	}

	existing, err := s.quotationRepo.GetByID(ctx, userID, *id)
	if err != nil {
		return uuid.Nil, err
	}
	record, err := QuotationToRecord(userID, *id, data)
	if err != nil {
		return uuid.Nil, common.ValidationError(err)
	}
	// Saving content never moves the lifecycle state.
	record.Status = existing.Status
	if err := s.quotationRepo.Update(ctx, record); err != nil {
		return uuid.Nil, err
	}
	s.invalidateDrafts(ctx, userID)
	return *id, nil
}

func (s *quotationService) LoadDraft(ctx context.Context, userID, id uuid.UUID) (*document.QuotationData, error) {
	record, err := s.quotationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return RecordToQuotation(record), nil
}

func (s *quotationService) ListDrafts(ctx context.Context, userID uuid.UUID) ([]models.QuotationSummary, error) {
	if cached, err := s.cache.GetDraftSummaries(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}

	drafts, err := s.quotationRepo.ListDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.QuotationSummary, 0, len(drafts))
	for _, d := range drafts {
		summaries = append(summaries, d.Summary())
	}

	if err := s.cache.SetDraftSummaries(ctx, userID, summaries, draftCacheTTL); err != nil {
		log.Printf("WARN: failed to cache draft summaries for user %s: %v", userID, err)
	}
	return summaries, nil
}

func (s *quotationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Quotation, error) {
	return s.quotationRepo.List(ctx, userID, limit, offset)
}

func (s *quotationService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Quotation, error) {
	return s.quotationRepo.GetByID(ctx, userID, id)
}

func (s *quotationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.quotationRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateDrafts(ctx, userID)
	return nil
}

func (s *quotationService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status document.QuotationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid quotation status", common.ErrValidation)
	}
	current, err := s.quotationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if !document.CanTransitionQuotation(document.QuotationStatus(current.Status), status) {
		return fmt.Errorf("%w: cannot transition quotation from %s to %s", common.ErrValidation, current.Status, status)
	}
	if err := s.quotationRepo.UpdateStatus(ctx, userID, id, string(status)); err != nil {
		return err
	}
	s.invalidateDrafts(ctx, userID)
	return nil
}

func (s *quotationService) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	seq, err := s.quotationRepo.NextSequence(ctx, userID)
	if err != nil {
		return "", err
	}
	return document.QuotationNumberFor(seq), nil
}

func (s *quotationService) invalidateDrafts(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.InvalidateDrafts(ctx, userID); err != nil {
		log.Printf("WARN: failed to invalidate draft cache for user %s: %v", userID, err)
	}
}
