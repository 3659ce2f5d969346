package api

import (
	"context"  // Stager signature
	"errors"   // Oversized body detection
	"io"       // Stager signature
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// MaxReceiptSize bounds staged receipt files
const MaxReceiptSize = 10 << 20

// ReceiptStager keeps an uploaded file until a transaction references it
type ReceiptStager interface {
	Stage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// StageReceiptHandler accepts a multipart "file" and returns the receipt_ref to send
// with the transaction
func StageReceiptHandler(st ReceiptStager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxReceiptSize+1<<20) // Room for multipart framing
		fh, err := c.FormFile("file")
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			reject(c, http.StatusRequestEntityTooLarge, "Receipt is too large")
			return
		}
		if err != nil {
			reject(c, http.StatusBadRequest, "A receipt file is required")
			return
		}
		if fh.Size > MaxReceiptSize {
			reject(c, http.StatusRequestEntityTooLarge, "Receipt is too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			reject(c, http.StatusBadRequest, "Unreadable receipt")
			return
		}
		defer f.Close()
		ref, err := st.Stage(c.Request.Context(), fh.Filename, f)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to stage receipt")
			reject(c, http.StatusInternalServerError, "Failed to store receipt")
			return
		}
		respond(c, http.StatusCreated, "Receipt staged", gin.H{"receipt_ref": ref})
	}
}
