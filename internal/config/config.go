package config

import (
	"errors"        // Validation errors
	"os"            // For environment variables
	"path/filepath" // Upload directory checks
	"strconv"       // For string to int conversion
	"time"          // Cache TTL

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	JWTSecret       string        // JWT secret key
	RedisAddr       string        // Redis server address
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	IsProd          bool          // Is production environment
	UploadDir       string        // Directory receipts are stored in
	UploadBaseURL   string        // Public URL prefix of UploadDir
	UploadStaging   string        // Directory client receipts wait in before a transaction claims them
	CacheTTL        time.Duration // Lifetime of cached read models
	ConflictRetries int           // Replays of an operation that lost a wallet write race
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:         envOr("APP_PORT", "8080"),                                    // Application port
		DBUser:          os.Getenv("DB_USER"),                                         // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                                     // Database password
		DBHost:          envOr("DB_HOST", "127.0.0.1"),                                // Database host
		DBPort:          envOr("DB_PORT", "3306"),                                     // Database port
		DBName:          os.Getenv("DB_NAME"),                                         // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),                                      // JWT secret key
		RedisAddr:       os.Getenv("REDIS_ADDR"),                                      // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                                      // Redis password
		RedisDB:         redisDB,                                                      // Redis database number
		IsProd:          os.Getenv("IS_PROD") == "true",                               // Is production environment
		UploadDir:       envOr("UPLOAD_DIR", "uploads"),                               // Receipt directory
		UploadBaseURL:   envOr("UPLOAD_BASE_URL", "/uploads"),                         // Receipt URL prefix
		UploadStaging:   envOr("UPLOAD_STAGING_DIR", "staging"),                       // Unserved staging area
		CacheTTL:        time.Duration(envInt("CACHE_TTL_SECONDS", 60)) * time.Second, // Cache lifetime
		ConflictRetries: envInt("LEDGER_CONFLICT_RETRIES", 3),                         // Conflict replays
	}
}

// DSN returns the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// Validate rejects configurations the server must not start with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	// Everything under UploadDir is served publicly
	if rel, err := filepath.Rel(c.UploadDir, c.UploadStaging); err == nil && filepath.IsLocal(rel) {
		return errors.New("UPLOAD_STAGING_DIR must not be inside UPLOAD_DIR")
	}
	if rel, err := filepath.Rel(c.UploadStaging, c.UploadDir); err == nil && filepath.IsLocal(rel) {
		return errors.New("UPLOAD_DIR must not be inside UPLOAD_STAGING_DIR")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
