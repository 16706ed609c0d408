package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// ctxActor extracts the authenticated username and role injected by the
// Auth middleware. A missing username means the middleware did not run on
// this route; fail with 401 before touching any service.
func ctxActor(c echo.Context) (username string, role domain.Role, err error) {
	username, _ = c.Get("username").(string)
	if username == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	r, _ := c.Get("role").(string)
	return username, domain.Role(r), nil
}

// pageParams reads the skip/limit query parameters, tolerating absent or
// malformed values; the services apply their own defaults and caps.
func pageParams(c echo.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.QueryParam("skip"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}
