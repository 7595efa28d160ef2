// ABOUTME: Maps errors to HTTP status codes and JSON error bodies.

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
)

// invalidError is a client mistake reported back verbatim with 400.
type invalidError struct {
	msg string
}

func (e *invalidError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &invalidError{msg: fmt.Sprintf(format, args...)}
}

// fail writes the response for err. Unexpected errors are logged and
// reported as a generic 500.
func (s *Server) fail(c *gin.Context, err error) {
	var inv *invalidError
	switch {
	case errors.As(err, &inv):
		c.JSON(http.StatusBadRequest, gin.H{"error": inv.msg})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, ai.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrNoAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI model not configured"})
	default:
		s.log.WithError(err).WithField("path", c.Request.URL.Path).Error("handler failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed"})
	}
}

// bind decodes the JSON body into v, reporting decode errors as 400.
// An empty body leaves v untouched.
func bind(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil {
		return invalid("invalid request body: %v", err)
	}
	return nil
}
