package service

import (
	"context"
	"fmt"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity uint) (*repo.CartItemView, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product_id required: %w", apperr.ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be > 0: %w", apperr.ErrValidation)
	}
	return s.Repo.AddCartItem(ctx, userID, productID, quantity)
}

func (s *CartService) List(ctx context.Context, userID uint) ([]repo.CartItemView, error) {
	return s.Repo.ListCartItems(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if itemID == 0 {
		return fmt.Errorf("item id required: %w", apperr.ErrValidation)
	}
	return s.Repo.RemoveCartItem(ctx, userID, itemID)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}
