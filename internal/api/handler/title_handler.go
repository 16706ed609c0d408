package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/api/metrics"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type TitleHandler struct {
	titleService ports.TitleService
}

func NewTitleHandler(titleService ports.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

type createTitleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	CategoryID  string `json:"categoryId" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

type updateTitleRequest struct {
	Name        *string `json:"name"`
	CategoryID  *string `json:"categoryId"`
	Description *string `json:"description"`
}

type rateTitleRequest struct {
	Rate int `json:"rateValue" validate:"required,gte=1,lte=5"`
}

type averageRateResponse struct {
	TitleID     string  `json:"title_id"`
	AverageRate float64 `json:"average_rate"`
}

// Search returns titles whose name matches the query string.
//
// @Summary      Search titles by name
// @Tags         titles
// @Produce      json
// @Param        searchValue  query     string  true  "Name fragment"
// @Success      200          {object}  envelope
// @Router       /v1/title/search [get]
func (h *TitleHandler) Search(c echo.Context) error {
	titles, err := h.titleService.SearchTitles(c.Request().Context(), c.QueryParam("searchValue"))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, titles, int64(len(titles)))
}

// List returns a page of titles ordered by activity or rating.
//
// @Summary      List titles
// @Tags         titles
// @Produce      json
// @Param        author       query     string  false  "Filter by author username"
// @Param        categoryIds  query     string  false  "Comma-separated category ids"
// @Param        sortBy       query     string  false  "hot (default) or top"
// @Param        skip         query     int     false  "Offset"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  envelope
// @Router       /v1/title/all [get]
func (h *TitleHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	filter := ports.TitleListFilter{
		Author: c.QueryParam("author"),
		SortBy: c.QueryParam("sortBy"),
		Skip:   skip,
		Limit:  limit,
	}
	if raw := c.QueryParam("categoryIds"); raw != "" {
		filter.CategoryIDs = strings.Split(raw, ",")
	}

	result, err := h.titleService.ListTitles(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, result.Titles, result.Count)
}

// Get resolves a title by id or slug depending on the type query param.
//
// @Summary      Get a title by id or slug
// @Tags         titles
// @Produce      json
// @Param        queryData  path      string  true   "Title id or slug"
// @Param        type       query     string  false  "id or slug (default slug)"
// @Success      200        {object}  envelope
// @Failure      404        {object}  errorResponse
// @Router       /v1/title/{queryData} [get]
func (h *TitleHandler) Get(c echo.Context) error {
	byID := c.QueryParam("type") == "id"
	title, err := h.titleService.GetTitle(c.Request().Context(), c.Param("queryData"), byID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, title)
}

// Create adds a new title owned by the caller.
//
// @Summary      Create a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTitleRequest  true  "Title details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/title/create-title [post]
func (h *TitleHandler) Create(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	title, err := h.titleService.CreateTitle(c.Request().Context(), username, ports.CreateTitleInput{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	metrics.TitlesCreatedTotal.Inc()
	return respond(c, http.StatusCreated, title)
}

// Update edits a title; a rename re-derives the slug.
//
// @Summary      Update a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        titleId  path      string              true  "Title id"
// @Param        body     body      updateTitleRequest  true  "Fields to change"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/title/{titleId} [patch]
func (h *TitleHandler) Update(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	title, err := h.titleService.UpdateTitle(c.Request().Context(), username, c.Param("titleId"), ports.UpdateTitleInput{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, title)
}

// Delete removes a title together with its entries, votes and ratings.
//
// @Summary      Delete a title
// @Tags         titles
// @Produce      json
// @Security     BearerAuth
// @Param        titleId  path      string  true  "Title id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/title/{titleId} [delete]
func (h *TitleHandler) Delete(c echo.Context) error {
	if err := h.titleService.DeleteTitle(c.Request().Context(), c.Param("titleId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "title deleted"})
}

// Rate stores the caller's 1-5 rating of the title; re-rating replaces
// the previous value.
//
// @Summary      Rate a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        titleId  path      string             true  "Title id"
// @Param        body     body      rateTitleRequest   true  "Rating value 1-5"
// @Success      200      {object}  envelope
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/title/{titleId}/rate [patch]
func (h *TitleHandler) Rate(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req rateTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.titleService.RateTitle(c.Request().Context(), username, c.Param("titleId"), req.Rate); err != nil {
		return err
	}

	metrics.RatingsSubmittedTotal.Inc()
	return respond(c, http.StatusOK, messageResponse{Message: "rating saved"})
}

// RateOfUser returns the caller's own rating of the title.
//
// @Summary      Get the caller's rating of a title
// @Tags         titles
// @Produce      json
// @Security     BearerAuth
// @Param        titleId  path      string  true  "Title id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/title/{titleId}/rate-of-user [get]
func (h *TitleHandler) RateOfUser(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	rating, err := h.titleService.GetRateOfUser(c.Request().Context(), username, c.Param("titleId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rating)
}

// AverageRate returns the title's mean rating.
//
// @Summary      Get a title's average rating
// @Tags         titles
// @Produce      json
// @Param        titleId  path      string  true  "Title id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /v1/title/{titleId}/average-rate [get]
func (h *TitleHandler) AverageRate(c echo.Context) error {
	titleID := c.Param("titleId")
	avg, err := h.titleService.GetAverageRate(c.Request().Context(), titleID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, averageRateResponse{TitleID: titleID, AverageRate: avg})
}
