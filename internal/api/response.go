package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes

	"expense_tracker/internal/ledger" // Ledger error sentinels
	"expense_tracker/internal/store"  // Store sentinels

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Response is the body shape of every endpoint
type Response struct {
	Success bool   `json:"success"`           // Whether the operation succeeded
	Message string `json:"message,omitempty"` // Human readable outcome
	Data    any    `json:"data,omitempty"`    // Payload
	Cached  bool   `json:"cached,omitempty"`  // Payload came from redis
}

// PartialFailure is the payload of a failure whose cleanup did not complete
type PartialFailure struct {
	Completed []string `json:"completed"` // Steps left committed
	Failed    string   `json:"failed"`    // Step whose failure started the unwind
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondCached(c *gin.Context, data any, cached bool) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Cached: cached})
}

func reject(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// fail maps a ledger error onto an HTTP status
func fail(c *gin.Context, err error) {
	var pf *ledger.PartialFailureError
	if errors.As(err, &pf) {
		logrus.WithFields(logrus.Fields{
			"completed": pf.Completed, // Steps left committed
			"failed":    pf.Failed,    // Failing step
			"error":     err.Error(),  // Full error
		}).Error("Ledger left inconsistent")
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: "Operation failed and could not be fully rolled back",
			Data:    PartialFailure{Completed: pf.Completed, Failed: pf.Failed},
		})
		return
	}
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logrus.WithField("error", err.Error()).Error("Request failed") // Details stay in the log
		message = "Internal error"
	}
	reject(c, status, message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInvariantViolation):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrUploadFailed):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict // Retries exhausted
	}
	return http.StatusInternalServerError
}

// currentUser returns the authenticated user id set by the JWT middleware
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		reject(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}
