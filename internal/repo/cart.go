package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/models"
)

// CartItemView is a cart line joined with the live catalog row. TotalPrice
// is derived from the current price on every read, unlike an order item,
// whose price is frozen at checkout.
type CartItemView struct {
	ID           uint            `json:"id"`
	UserID       uint            `json:"user_id"`
	ProductID    uint            `json:"product_id"`
	Quantity     uint            `json:"quantity"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

func (r *GormRepo) AddCartItem(ctx context.Context, userID, productID, quantity uint) (*CartItemView, error) {
	var view CartItemView

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
			}
			return err
		}

		var item models.CartItem
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		exists := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cumulative := quantity
		if exists {
			cumulative += item.Quantity
		}
		if int64(cumulative) > int64(product.Stock) {
			return &apperr.StockError{ProductID: productID, Requested: cumulative, Available: product.Stock}
		}

		if exists {
			item.Quantity = cumulative
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		} else {
			item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		view = composeCartView(&item, &product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *GormRepo) ListCartItems(ctx context.Context, userID uint) ([]CartItemView, error) {
	var views []CartItemView
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id, cart_items.user_id, cart_items.product_id, cart_items.quantity, "+
			"products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC, cart_items.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].TotalPrice = views[i].ProductPrice.Mul(decimal.NewFromInt(int64(views[i].Quantity)))
	}
	return views, nil
}

// RemoveCartItem deletes a line scoped to its owner. A line belonging to a
// different user reports not found rather than forbidden, so item ids do
// not leak across accounts.
func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, itemID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, apperr.ErrNotFound)
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func composeCartView(item *models.CartItem, product *models.Product) CartItemView {
	return CartItemView{
		ID:           item.ID,
		UserID:       item.UserID,
		ProductID:    item.ProductID,
		Quantity:     item.Quantity,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		TotalPrice:   product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}
