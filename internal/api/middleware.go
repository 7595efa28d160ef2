// ABOUTME: Request logging and default-user middleware.

package api

import (
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userKey = "user"

// requestLogger logs one entry per request after it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if u, ok := c.Get(userKey); ok {
			fields["user"] = u.(*models.User).Email
		}

		entry := s.log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}

// defaultUser resolves the configured user, creating it on first use, and
// stores it in the gin context.
func (s *Server) defaultUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := s.repo.EnsureUser(c.Request.Context(), s.opts.UserEmail, s.opts.UserName)
		if err != nil {
			s.fail(c, err)
			c.Abort()
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}
