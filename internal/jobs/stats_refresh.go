package jobs

import (
	"context"
	"log"
	"time"

	"quotabill/internal/analytics"
	"quotabill/internal/repositories"

	"github.com/google/uuid"
)

// StatsRefreshService recomputes cached document stats in the background so
// the stats endpoint stays warm and overdue/expired counts roll over at
// date boundaries without any user action.
type StatsRefreshService struct {
	statsService *analytics.Service
	userRepo     repositories.UserRepository
}

type StatsRefreshResult struct {
	UsersProcessed int
	UsersFailed    int
	LastRefreshAt  time.Time
}

func NewStatsRefreshService(statsService *analytics.Service, userRepo repositories.UserRepository) *StatsRefreshService {
	return &StatsRefreshService{
		statsService: statsService,
		userRepo:     userRepo,
	}
}

func (s *StatsRefreshService) RefreshForUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.statsService.Refresh(ctx, userID); err != nil {
		log.Printf("Failed to refresh stats for user %s: %v", userID.String(), err)
		return err
	}
	return nil
}

const refreshPageSize = 100

// RefreshAll walks every active user and refreshes their cached stats. A
// failure for one user never stops the sweep.
func (s *StatsRefreshService) RefreshAll(ctx context.Context) (*StatsRefreshResult, error) {
	result := &StatsRefreshResult{LastRefreshAt: time.Now()}

	for offset := 0; ; offset += refreshPageSize {
		ids, err := s.userRepo.ListActiveIDs(ctx, refreshPageSize, offset)
		if err != nil {
			return result, err
		}
		for _, id := range ids {
			if err := s.RefreshForUser(ctx, id); err != nil {
				result.UsersFailed++
				continue
			}
			result.UsersProcessed++
		}
		if len(ids) < refreshPageSize {
			break
		}
	}

	log.Printf("Stats refresh completed: %d users refreshed, %d failed", result.UsersProcessed, result.UsersFailed)
	return result, nil
}
