package main

import (
	"context" // Redis ping

	"expense_tracker/internal/api"             // HTTP handlers
	"expense_tracker/internal/config"          // Configuration
	"expense_tracker/internal/db"              // Database setup
	"expense_tracker/internal/ledger"          // Transaction reconciliation
	"expense_tracker/internal/middleware"      // Auth middleware
	"expense_tracker/internal/report"          // Read models
	"expense_tracker/internal/store/gormstore" // MySQL backed store
	"expense_tracker/internal/upload"          // Receipt storage

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	conn, err := db.Open(cfg.DSN(), cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	st := gormstore.New(conn)
	disk := upload.NewDisk(cfg.UploadDir, cfg.UploadStaging, cfg.UploadBaseURL)
	rec := ledger.NewReconciler(st, disk, logrus.StandardLogger(), cfg.ConflictRetries)
	proj := report.NewProjector(st)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	r.Static(cfg.UploadBaseURL, cfg.UploadDir) // Uploaded receipts, never the staging area

	// Auth routes
	r.POST("/user", api.RegisterHandler(conn))            // Registration endpoint
	r.GET("/user", api.LoginHandler(conn, cfg.JWTSecret)) // Login endpoint

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	wallets := r.Group("/wallets", auth)
	wallets.POST("", api.CreateWalletHandler(rec, redisClient))             // Create wallet
	wallets.GET("", api.ListWalletsHandler(rec, redisClient, cfg.CacheTTL)) // List wallets

	txs := r.Group("/transactions", auth)
	txs.POST("", api.SaveTransactionHandler(rec, redisClient))                  // Create transaction
	txs.GET("", api.RecentTransactionsHandler(proj, redisClient, cfg.CacheTTL)) // Recent transactions
	txs.GET("/search", api.SearchTransactionsHandler(proj))                     // Search transactions
	txs.PUT("/:id", api.SaveTransactionHandler(rec, redisClient))               // Update transaction
	txs.DELETE("/:id", api.DeleteTransactionHandler(rec, redisClient))          // Delete transaction

	r.POST("/receipts", auth, api.StageReceiptHandler(disk))                         // Stage a receipt file
	r.GET("/stats/:period", auth, api.StatsHandler(proj, redisClient, cfg.CacheTTL)) // Charts

	// Admin routes (protected, admin only)
	admin := r.Group("/admin", auth, middleware.AdminOnlyMiddleware(conn))
	admin.GET("/users", api.ListUsersHandler(conn, redisClient, cfg.CacheTTL)) // List users
	admin.GET("/wallets/:id/audit", api.AuditWalletHandler(rec))               // Wallet audit

	logrus.Info("Server running on " + cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
