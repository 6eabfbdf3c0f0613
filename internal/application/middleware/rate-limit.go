package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
)

// Limiter hands out transaction slots. *redis.RateLimiter is the production implementation.
type Limiter interface {
	Acquire(ctx context.Context) (string, error)
	Release(ctx context.Context, transactionID string) error
}

// RateLimit holds a limiter slot for the duration of each request and answers 429 when none is left.
// When Redis itself fails the request goes through unthrottled.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			transactionID, err := limiter.Acquire(ctx)
			if errors.Is(err, redis.ErrLimitReached) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, model.ErrorResponse{Error: msg.GetMessage("rate-limit.exceeded")})
			}
			if err != nil {
				log.Warn(msg.GetMessage("rate-limit.acquire-fail", err), zap.Error(err))
				return next(c)
			}

			defer func() {
				if err := limiter.Release(context.WithoutCancel(ctx), transactionID); err != nil {
					log.Warn(msg.GetMessage("rate-limit.release-fail", err), zap.Error(err))
				}
			}()
			return next(c)
		}
	}
}
