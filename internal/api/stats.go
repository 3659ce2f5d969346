package api

import (
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes
	"time"     // Clock and cache TTL

	"expense_tracker/internal/ledger" // Error sentinels
	"expense_tracker/internal/report" // Stats projection
	"expense_tracker/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// StatsHandler returns the income/expense chart for :period (weekly, monthly or yearly)
func StatsHandler(proj *report.Projector, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		period, err := report.ParsePeriod(c.Param("period"))
		if err != nil {
			reject(c, http.StatusBadRequest, err.Error())
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.StatsKey(userID, string(period))
		var stats report.Stats
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &stats); err == nil && found {
			respondCached(c, stats, true)
			return
		}
		stats, err = proj.Stats(ctx, userID, period, time.Now().UTC())
		if err != nil {
			fail(c, fmt.Errorf("%w: %w", ledger.ErrStore, err))
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, stats, ttl)
		respondCached(c, stats, false)
	}
}
