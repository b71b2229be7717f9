package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateLimit configures a fixed-window limiter.
type RateLimit struct {
	Name   string
	Max    int64
	Window time.Duration
}

// RateLimiter counts requests per user, or per client IP before
// authentication, in Redis so the limit holds across instances. When Redis
// is unavailable requests are let through.
func RateLimiter(client *redis.Client, limit RateLimit, logger *log.Logger) gin.HandlerFunc {
	retryAfter := int(math.Ceil(limit.Window.Seconds()))

	return func(c *gin.Context) {
		if client == nil || limit.Max <= 0 {
			c.Next()
			return
		}

		key := rateLimitKey(c, limit.Name)
		ctx := c.Request.Context()

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		// A counter with no deadline would never reset, so any request that
		// finds one sets it, not only the first of the window.
		if err == nil && ttl.Val() < 0 {
			err = client.Expire(ctx, key, limit.Window).Err()
		}
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		count := incr.Val()

		c.Header("RateLimit-Limit", fmt.Sprint(limit.Max))
		c.Header("RateLimit-Remaining", fmt.Sprint(max(limit.Max-count, 0)))

		if count > limit.Max {
			logger.WithFields(log.Fields{
				"key":    key,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("rate limit exceeded")
			c.Header("Retry-After", fmt.Sprint(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests, please try again later.",
				"retryAfter": retryAfter,
			})
			return
		}
		c.Next()
	}
}

func rateLimitKey(c *gin.Context, name string) string {
	prefix := "rate_limit:"
	if name != "" {
		prefix += name + ":"
	}
	if userID, ok := c.Get(UserIDKey); ok {
		return fmt.Sprintf("%suser:%v", prefix, userID)
	}
	return prefix + "ip:" + c.ClientIP()
}
