package handlers

import (
	"net/http"

	"quotabill/internal/analytics"
	"quotabill/internal/common"

	"github.com/labstack/echo/v4"
)

// StatsHandlers serves cached per-owner document statistics
type StatsHandlers struct {
	statsService *analytics.Service
}

func NewStatsHandlers(statsService *analytics.Service) *StatsHandlers {
	return &StatsHandlers{statsService: statsService}
}

// GetStats handles GET /api/stats
func (h *StatsHandlers) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	stats, err := h.statsService.Get(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// RefreshStats handles POST /api/stats/refresh
func (h *StatsHandlers) RefreshStats(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	stats, err := h.statsService.Refresh(ctx, userID)
	if err != nil {
		return sendServiceError(c, err, "stats")
	}
	return c.JSON(http.StatusOK, stats)
}
