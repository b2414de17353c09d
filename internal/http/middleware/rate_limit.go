package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mathduel_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// InitRedisRateLimiter подключает redis для лимитера.
// При пустом адресе лимитер отключен и middleware пропускает все запросы.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter отключен: REDIS_ADDR не задан")
		return
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("redis недоступен, rate limiter отключен", "error", err)
		rdb = nil
		return
	}
	logger.Info("rate limiter подключен к redis", "addr", addr)
}

// RateLimit ограничивает число запросов с одного ip в окне
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s", c.FullPath(), c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// redis недоступен, не блокируем трафик
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "слишком много запросов"})
			return
		}

		c.Next()
	}
}
