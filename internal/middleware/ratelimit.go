package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ewill123/nec-callcenter/internal/limiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateChecker is satisfied by *limiter.Limiter.
type RateChecker interface {
	Check(ctx context.Context, clientID, action string) (*limiter.CheckResult, error)
}

// RateLimit rejects a client that exceeded its window for action with 429.
// A nil checker or a failing check lets the request through.
func RateLimit(checker RateChecker, action string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.Next()
			return
		}

		result, err := checker.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("action", action), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			RecordRateLimited(action)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			return
		}

		c.Next()
	}
}
