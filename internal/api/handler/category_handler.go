package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type CategoryHandler struct {
	categoryService ports.CategoryService
}

func NewCategoryHandler(categoryService ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type createCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	ParentID string `json:"parentId"`
}

type updateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=60"`
}

// ListAll returns every category as a flat list.
//
// @Summary      List all categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /v1/category/all [get]
func (h *CategoryHandler) ListAll(c echo.Context) error {
	categories, err := h.categoryService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, categories, int64(len(categories)))
}

// Tree returns root categories with their children nested.
//
// @Summary      Get the category tree
// @Tags         categories
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /v1/category/tree [get]
func (h *CategoryHandler) Tree(c echo.Context) error {
	tree, err := h.categoryService.Tree(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tree)
}

// Trending returns the most active categories of the last week.
//
// @Summary      Get trending categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /v1/category/trending-categories [get]
func (h *CategoryHandler) Trending(c echo.Context) error {
	trends, err := h.categoryService.Trending(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, trends, int64(len(trends)))
}

// Create adds a category; a non-empty parentId must name a root category.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/category [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryService.Create(c.Request().Context(), req.Name, req.ParentID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, category)
}

// Update renames a category.
//
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      string                 true  "Category id"
// @Param        body        body      updateCategoryRequest  true  "New name"
// @Success      200         {object}  envelope
// @Failure      404         {object}  errorResponse
// @Router       /v1/category/{categoryId} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categoryService.Update(c.Request().Context(), c.Param("categoryId"), req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, category)
}

// Delete removes a category that has no children and no titles.
//
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {object}  envelope
// @Failure      404         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Router       /v1/category/{categoryId} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.categoryService.Delete(c.Request().Context(), c.Param("categoryId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "category deleted"})
}
