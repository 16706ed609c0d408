package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/core/ports"
)

// ExtractBearer pulls the raw token out of an Authorization header value.
// ok is false when the header is absent or not a bearer scheme.
func ExtractBearer(header string) (token string, ok bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), parts[1] != ""
}

// Auth validates the bearer token, rejects revoked sessions and injects
// the caller's identity into context under "username", "role" and "token".
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := ExtractBearer(c.Request().Header.Get("Authorization"))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid authorization header")
			}

			identity, err := tokens.Validate(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("username", identity.Username)
			c.Set("role", string(identity.Role))
			c.Set("token", raw)

			return next(c)
		}
	}
}
