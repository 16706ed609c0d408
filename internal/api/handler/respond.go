package handler

import "github.com/labstack/echo/v4"

// envelope wraps every successful response body.
type envelope struct {
	Attributes any `json:"attributes"`
}

// listPayload is the inner shape for paginated collections.
type listPayload struct {
	Data  any   `json:"data"`
	Count int64 `json:"count"`
}

// respond renders a single resource inside the attributes envelope.
func respond(c echo.Context, status int, payload any) error {
	return c.JSON(status, envelope{Attributes: payload})
}

// respondList renders a collection with its total count inside the envelope.
func respondList(c echo.Context, status int, data any, count int64) error {
	return c.JSON(status, envelope{Attributes: listPayload{Data: data, Count: count}})
}
