package middleware

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/labstack/echo/v4"
)

// RateLimit limits requests per client IP. rps <= 0 disables it.
func RateLimit(rps float64, burst int, ttl time.Duration) echo.MiddlewareFunc {
	if rps <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	lmt := tollbooth.NewLimiter(rps, &limiter.ExpirableOptions{DefaultExpirationTTL: ttl})
	if burst > 0 {
		lmt.SetBurst(burst)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if httpError := tollbooth.LimitByRequest(lmt, c.Response(), c.Request()); httpError != nil {
				return reject(c, httpError.StatusCode, httpError.Message)
			}
			return next(c)
		}
	}
}
