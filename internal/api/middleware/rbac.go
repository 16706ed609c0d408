package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// MinRole rejects callers whose role ranks below required. Roles form a
// strict hierarchy, so an admin passes every junior-author gate.
func MinRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !domain.Role(role).AtLeast(required) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
