package api

import (
	"encoding/json" // Numeric request fields
	"fmt"           // Error wrapping
	"net/http"      // HTTP status codes
	"strconv"       // Query parsing
	"time"          // Dates and cache TTL

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/ledger" // Transaction reconciliation
	"expense_tracker/internal/report" // Read models
	"expense_tracker/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// dateLayout is accepted alongside RFC 3339 for transaction dates
const dateLayout = "2006-01-02"

// TransactionRequest is the body of POST /transactions and PUT /transactions/:id
type TransactionRequest struct {
	Type        string      `json:"type" binding:"required"`      // income or expense
	Amount      json.Number `json:"amount" binding:"required"`    // Positive amount
	WalletID    string      `json:"wallet_id" binding:"required"` // Wallet the transaction belongs to
	Date        string      `json:"date"`                         // RFC 3339 or YYYY-MM-DD, today when omitted
	Category    string      `json:"category"`                     // Expense category
	Description string      `json:"description"`                  // Free text
	ReceiptRef  string      `json:"receipt_ref"`                  // Staged receipt file
}

// draft converts the request into a ledger draft
func (r TransactionRequest) draft(id string, now time.Time) (ledger.Draft, error) {
	amount, err := domain.ParseAmount(r.Amount.String())
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("%w: %w", ledger.ErrValidation, err)
	}
	date, err := parseDate(r.Date, now)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("%w: %w", ledger.ErrValidation, err)
	}
	return ledger.Draft{
		ID:          id,
		Type:        domain.TransactionType(r.Type),
		Amount:      amount,
		WalletID:    r.WalletID,
		Date:        date,
		Category:    r.Category,
		Description: r.Description,
		ReceiptRef:  r.ReceiptRef,
	}, nil
}

func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither RFC 3339 nor %s", s, dateLayout)
	}
	return t, nil
}

// SaveTransactionHandler creates a transaction, or updates the one named by :id
func SaveTransactionHandler(rec *ledger.Reconciler, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			reject(c, http.StatusBadRequest, "Invalid request")
			return
		}
		id := c.Param("id") // Empty on POST
		d, err := req.draft(id, time.Now().UTC())
		if err != nil {
			fail(c, err)
			return
		}
		ctx := c.Request.Context()
		t, err := rec.CreateOrUpdate(ctx, userID, d)
		if err != nil {
			fail(c, err)
			return
		}
		if err := utils.InvalidateUser(ctx, rdb, userID); err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to invalidate cache")
		}
		if id == "" {
			respond(c, http.StatusCreated, "Transaction created", t)
			return
		}
		respond(c, http.StatusOK, "Transaction updated", t)
	}
}

// DeleteTransactionHandler removes a transaction; wallet_id must name its wallet
func DeleteTransactionHandler(rec *ledger.Reconciler, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		walletID := c.Query("wallet_id")
		if walletID == "" {
			reject(c, http.StatusBadRequest, "wallet_id is required")
			return
		}
		ctx := c.Request.Context()
		if err := rec.Delete(ctx, userID, c.Param("id"), walletID); err != nil {
			fail(c, err)
			return
		}
		if err := utils.InvalidateUser(ctx, rdb, userID); err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to invalidate cache")
		}
		respond(c, http.StatusOK, "Transaction deleted", nil)
	}
}

// RecentTransactionsHandler returns the user's latest transactions
func RecentTransactionsHandler(proj *report.Projector, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		limit := report.DefaultRecentLimit
		if l := c.Query("limit"); l != "" {
			v, err := strconv.Atoi(l)
			if err != nil || v <= 0 || v > 100 {
				reject(c, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = v
		}
		ctx := c.Request.Context()
		cacheable := limit == report.DefaultRecentLimit // Only the default page is cached
		var txs []domain.Transaction
		if cacheable {
			if found, err := utils.GetCache(ctx, rdb, utils.RecentKey(userID), &txs); err == nil && found {
				respondCached(c, txs, true)
				return
			}
		}
		txs, err := proj.Recent(ctx, userID, limit)
		if err != nil {
			fail(c, fmt.Errorf("%w: %w", ledger.ErrStore, err))
			return
		}
		if cacheable {
			_ = utils.SetCache(ctx, rdb, utils.RecentKey(userID), txs, ttl)
		}
		respondCached(c, txs, false)
	}
}

// SearchTransactionsHandler matches the user's transactions against ?q=
func SearchTransactionsHandler(proj *report.Projector) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		txs, err := proj.Search(c.Request.Context(), userID, c.Query("q"))
		if err != nil {
			fail(c, fmt.Errorf("%w: %w", ledger.ErrStore, err))
			return
		}
		respond(c, http.StatusOK, "", txs)
	}
}
