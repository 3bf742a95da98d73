package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type categoryRequest struct {
	Type  string `json:"type"  validate:"required"`
	Color string `json:"color" validate:"required"`
}

type deleteCategoriesRequest struct {
	Types []string `json:"types" validate:"required,min=1"`
}

// Create handles POST /api/categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cat, err := h.service.Create(c.Request().Context(), req.Type, req.Color)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cat)
}

// Update handles PATCH /api/categories/:type.
//
// @Summary      Rename and recolor a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        type  path      string           true  "Current category type"
// @Param        body  body      categoryRequest  true  "New type and color"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /categories/{type} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.service.Update(c.Request().Context(), c.Param("type"), req.Type, req.Color)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, countResponse{Message: "Category edited successfully", Count: n})
}

// Delete handles DELETE /api/categories.
//
// @Summary      Delete categories
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      deleteCategoriesRequest  true  "Types to delete"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /categories [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	var req deleteCategoriesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.service.Delete(c.Request().Context(), req.Types)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, countResponse{Message: "Categories deleted", Count: n})
}

// List handles GET /api/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorBody
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cats)
}
