package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/ledger" // Wallet audit
	"expense_tracker/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserPage is one page of the admin user listing
type UserPage struct {
	Users      []domain.User `json:"users"`       // Users on this page
	Page       int           `json:"page"`        // Current page
	PageSize   int           `json:"page_size"`   // Page size
	Total      int64         `json:"total"`       // Total number of users
	TotalPages int           `json:"total_pages"` // Total pages
}

// pagination reads ?page= and ?page_size= with defaults 1 and 20, page size capped at 100
func pagination(c *gin.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}

// ListUsersHandler returns all users, paginated
func ListUsersHandler(db *gorm.DB, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var resp UserPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &resp); err == nil && found {
			respondCached(c, resp, true)
			return
		}
		q := db.WithContext(ctx).Model(&domain.User{})
		if err := q.Count(&resp.Total).Error; err != nil {
			reject(c, http.StatusInternalServerError, "Failed to count users")
			return
		}
		if err := q.Order("username").Offset((page - 1) * pageSize).Limit(pageSize).Find(&resp.Users).Error; err != nil {
			reject(c, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		resp.Page, resp.PageSize = page, pageSize
		resp.TotalPages = (int(resp.Total) + pageSize - 1) / pageSize
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, ttl)
		respondCached(c, resp, false)
	}
}

// AuditWalletHandler recomputes a wallet's totals from its transactions
func AuditWalletHandler(rec *ledger.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := rec.Audit(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, "", rep)
	}
}
