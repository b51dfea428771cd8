package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/logging"
	"github.com/webshop/storefront/internal/models"
	"github.com/webshop/storefront/internal/mykafka"
	"github.com/webshop/storefront/internal/repo"
)

// CheckoutService converts a cart into a persisted order. The storage
// sequence itself lives in repo.PlaceOrder; this layer validates input,
// keeps the error taxonomy intact, and emits the order event.
type CheckoutService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

func (s *CheckoutService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*models.Order, error) {
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, fmt.Errorf("shipping_address required: %w", apperr.ErrValidation)
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, fmt.Errorf("payment_method required: %w", apperr.ErrValidation)
	}

	order, err := s.Repo.PlaceOrder(ctx, userID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		if isCheckoutDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperr.ErrCheckoutFailed, err)
	}

	s.publish(ctx, userID, map[string]any{
		"type":         "order_created",
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount.String(),
		"items":        len(order.Items),
	})

	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

// isCheckoutDomainError separates expected checkout outcomes from storage
// failures, which get wrapped as ErrCheckoutFailed.
func isCheckoutDomainError(err error) bool {
	return errors.Is(err, apperr.ErrEmptyCart) ||
		errors.Is(err, apperr.ErrInsufficientStock) ||
		errors.Is(err, apperr.ErrValidation) ||
		errors.Is(err, apperr.ErrNotFound)
}

func (s *CheckoutService) publish(ctx context.Context, userID uint, event map[string]any) {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(publishCtx, mykafka.TopicOrderEvents, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", mykafka.TopicOrderEvents, "error", err)
	}
}
