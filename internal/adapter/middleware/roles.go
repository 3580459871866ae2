package middleware

import (
	"net/http"
	"strings"

	"lcflow/internal/domain/session"

	"github.com/labstack/echo/v4"
)

// RequireRole admits callers whose X-User-Role is one of roles. ADMIN is
// admitted everywhere. With enforce off it is a pass-through.
func RequireRole(enforce bool, roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !enforce {
			return next
		}
		return func(c echo.Context) error {
			raw := strings.ToUpper(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole)))
			role, err := session.ParseRole(raw)
			if err != nil {
				return reject(c, http.StatusForbidden, "missing or unknown "+HeaderUserRole)
			}
			if role == session.RoleAdmin {
				return next(c)
			}
			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			return reject(c, http.StatusForbidden, "role "+string(role)+" may not perform this action")
		}
	}
}
