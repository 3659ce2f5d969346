package api

import (
	"encoding/json" // Numeric request fields
	"net/http"      // HTTP status codes
	"time"          // Cache TTL

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/ledger" // Wallet operations
	"expense_tracker/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact money arithmetic
)

// CreateWalletRequest is the body of POST /wallets
type CreateWalletRequest struct {
	Name           string      `json:"name" binding:"required"` // Display name
	InitialBalance json.Number `json:"initial_balance"`         // Starting balance, zero when omitted
}

// CreateWalletHandler opens a new wallet for the authenticated user
func CreateWalletHandler(rec *ledger.Reconciler, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req CreateWalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			reject(c, http.StatusBadRequest, "Invalid request")
			return
		}
		initial := decimal.Zero
		if req.InitialBalance != "" {
			v, err := domain.ParseBalance(req.InitialBalance.String())
			if err != nil {
				reject(c, http.StatusBadRequest, err.Error())
				return
			}
			initial = v
		}
		ctx := c.Request.Context()
		wallet, err := rec.CreateWallet(ctx, userID, req.Name, initial)
		if err != nil {
			fail(c, err)
			return
		}
		_ = utils.DeleteCache(ctx, rdb, utils.WalletsKey(userID)) // Invalidate wallet list
		respond(c, http.StatusCreated, "Wallet created", wallet)
	}
}

// ListWalletsHandler returns the authenticated user's wallets
func ListWalletsHandler(rec *ledger.Reconciler, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.WalletsKey(userID)
		var wallets []domain.Wallet
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &wallets); err == nil && found {
			respondCached(c, wallets, true)
			return
		}
		wallets, err := rec.ListWallets(ctx, userID)
		if err != nil {
			fail(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, wallets, ttl)
		respondCached(c, wallets, false)
	}
}
