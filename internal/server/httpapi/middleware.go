package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxRequestID = "request_id"
	ctxEmail     = "email"
	ctxName      = "name"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"request_id", c.GetString(ctxRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered",
			"request_id", c.GetString(ctxRequestID), "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

// sessionTokens returns the session cookie and the bearer token, in that
// order, leaving out the ones that are absent.
func sessionTokens(c *gin.Context) []string {
	var tokens []string
	if v, err := c.Cookie(common.SessionCookieName); err == nil && v != "" {
		tokens = append(tokens, v)
	}
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// authenticate stores the session identity in c and reports whether the
// request carries a valid session. A stale cookie does not hide a valid
// bearer token.
func (s *Server) authenticate(c *gin.Context) bool {
	for _, token := range sessionTokens(c) {
		claims, err := s.issuer.Parse(token)
		if err != nil {
			continue
		}
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxName, claims.Name)
		return true
	}
	return false
}

func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authenticate(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in"})
			return
		}
		c.Next()
	}
}
