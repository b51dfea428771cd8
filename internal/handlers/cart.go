package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webshop/storefront/internal/logging"
	authmw "github.com/webshop/storefront/internal/middleware/auth"
	"github.com/webshop/storefront/internal/service"
)

type CartHandler struct {
	Svc *service.CartService
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	item, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_error", "user_id", userID, "product_id", req.ProductID, "error", err)
		return writeError(c, err)
	}

	l.Info("add_to_cart_success", "user_id", userID, "product_id", req.ProductID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "user_id", userID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	itemID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Remove(ctx, userID, itemID); err != nil {
		l.Warn("remove_from_cart_error", "user_id", userID, "item_id", itemID, "error", err)
		return writeError(c, err)
	}

	l.Info("remove_from_cart_success", "user_id", userID, "item_id", itemID)
	return c.JSON(http.StatusOK, echo.Map{"message": "item removed from cart"})
}
