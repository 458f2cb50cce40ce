package middleware

import (
	"net/http"
	"time"

	"quotabill/internal/caching"
	"quotabill/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimit caps requests per owner per window. Applied to the draft save
// endpoint so a runaway client cannot flood storage faster than the
// debounce interval implies.
func RateLimit(cache caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := common.GetUserIDFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user context")
			}

			limited, err := cache.IsRateLimited(c.Request().Context(), userID.String()+":"+c.Path(), limit, window)
			if err != nil {
				// Redis being down should not block saves.
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
