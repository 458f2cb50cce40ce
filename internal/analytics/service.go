package analytics

import (
	"context"
	"log"
	"time"

	"quotabill/internal/caching"
	"quotabill/internal/document"
	"quotabill/internal/models"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

const statsCacheTTL = 15 * time.Minute

// Service aggregates per-owner document counts and amounts. Counts use the
// derived display status, so an unpaid invoice past its due date reports as
// overdue even though the stored row still says sent.
type Service struct {
	quotationRepo repositories.QuotationRepository
	invoiceRepo   repositories.InvoiceRepository
	cacheService  caching.CacheService
}

func NewService(quotationRepo repositories.QuotationRepository, invoiceRepo repositories.InvoiceRepository, cacheService caching.CacheService) *Service {
	return &Service{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		cacheService:  cacheService,
	}
}

// Stats is the aggregate shape served by the stats endpoint.
type Stats struct {
	QuotationCounts map[string]int `json:"quotation_counts"`
	InvoiceCounts   map[string]int `json:"invoice_counts"`
	DraftCount      int            `json:"draft_count"`
	OutstandingDue  float64        `json:"outstanding_due"`
	PaidTotal       float64        `json:"paid_total"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

const statsPageSize = 200

func (s *Service) collectQuotations(ctx context.Context, userID uuid.UUID) ([]*models.Quotation, error) {
	var all []*models.Quotation
	for offset := 0; ; offset += statsPageSize {
		page, err := s.quotationRepo.List(ctx, userID, statsPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < statsPageSize {
			return all, nil
		}
	}
}

func (s *Service) collectInvoices(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	var all []*models.Invoice
	for offset := 0; ; offset += statsPageSize {
		page, err := s.invoiceRepo.List(ctx, userID, statsPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < statsPageSize {
			return all, nil
		}
	}
}

// Compute builds the stats from storage, bypassing the cache.
func (s *Service) Compute(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	now := time.Now()
	stats := &Stats{
		QuotationCounts: map[string]int{},
		InvoiceCounts:   map[string]int{},
		GeneratedAt:     now,
	}

	quotations, err := s.collectQuotations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, q := range quotations {
		validUntil := ""
		if q.ValidUntil != nil {
			validUntil = q.ValidUntil.Format(document.DateFormat)
		}
		display := document.QuotationDisplayStatus(document.QuotationStatus(q.Status), validUntil, now)
		stats.QuotationCounts[string(display)]++
		if q.Status == string(document.QuotationDraft) {
			stats.DraftCount++
		}
	}

	invoices, err := s.collectInvoices(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		display := document.InvoiceDisplayStatus(document.InvoiceStatus(inv.Status), inv.DueDate.Format(document.DateFormat), now)
		stats.InvoiceCounts[string(display)]++
		if inv.Status == string(document.InvoicePaid) {
			stats.PaidTotal += inv.Total
		} else {
			stats.OutstandingDue += inv.Total
		}
	}

	return stats, nil
}

// Get serves cached stats, computing and caching on a miss.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	if cached, err := s.cacheService.GetDocumentStats(ctx, userID); err == nil && cached != nil {
		return statsFromMap(cached), nil
	}
	return s.Refresh(ctx, userID)
}

// Refresh recomputes stats and overwrites the cache entry.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	stats, err := s.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.SetDocumentStats(ctx, userID, statsToMap(stats), statsCacheTTL); err != nil {
		log.Printf("WARN: failed to cache stats for user %s: %v", userID, err)
	}
	return stats, nil
}

func statsToMap(st *Stats) map[string]interface{} {
	qc := map[string]interface{}{}
	for k, v := range st.QuotationCounts {
		qc[k] = v
	}
	ic := map[string]interface{}{}
	for k, v := range st.InvoiceCounts {
		ic[k] = v
	}
	return map[string]interface{}{
		"quotation_counts": qc,
		"invoice_counts":   ic,
		"draft_count":      st.DraftCount,
		"outstanding_due":  st.OutstandingDue,
		"paid_total":       st.PaidTotal,
		"generated_at":     st.GeneratedAt.Format(time.RFC3339),
	}
}

func statsFromMap(m map[string]interface{}) *Stats {
	st := &Stats{
		QuotationCounts: map[string]int{},
		InvoiceCounts:   map[string]int{},
	}
	if qc, ok := m["quotation_counts"].(map[string]interface{}); ok {
		for k, v := range qc {
			if f, ok := v.(float64); ok {
				st.QuotationCounts[k] = int(f)
			}
		}
	}
	if ic, ok := m["invoice_counts"].(map[string]interface{}); ok {
		for k, v := range ic {
			if f, ok := v.(float64); ok {
				st.InvoiceCounts[k] = int(f)
			}
		}
	}
	if f, ok := m["draft_count"].(float64); ok {
		st.DraftCount = int(f)
	}
	if f, ok := m["outstanding_due"].(float64); ok {
		st.OutstandingDue = f
	}
	if f, ok := m["paid_total"].(float64); ok {
		st.PaidTotal = f
	}
	if s, ok := m["generated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			st.GeneratedAt = t
		}
	}
	return st
}
