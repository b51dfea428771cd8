package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webshop/storefront/internal/logging"
	authmw "github.com/webshop/storefront/internal/middleware/auth"
	"github.com/webshop/storefront/internal/service"
)

type OrderHandler struct {
	Svc *service.CheckoutService
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req service.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.Checkout(ctx, userID, req)
	if err != nil {
		l.Warn("checkout_error", "user_id", userID, "error", err)
		return writeError(c, err)
	}

	l.Info("checkout_success", "user_id", userID, "order_id", order.ID, "total", order.TotalAmount.String())
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders_error", "user_id", userID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
