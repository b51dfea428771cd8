package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webshop/storefront/internal/logging"
	"github.com/webshop/storefront/internal/service"
)

type CategoryHandler struct {
	Svc *service.CatalogService
}

func (h *CategoryHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	category, err := h.Svc.CreateCategory(ctx, req.Name, req.Description)
	if err != nil {
		l.Warn("create_category_error", "error", err)
		return writeError(c, err)
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_categories_error", "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}
