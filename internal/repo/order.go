package repo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/models"
)

// checkoutLine is the cart snapshot taken at the start of the checkout
// transaction: quantity from the cart, price and stock from the catalog.
type checkoutLine struct {
	ProductID uint
	Quantity  uint
	Price     decimal.Decimal
	Stock     int
}

// PlaceOrder converts the user's cart into a persisted order in a single
// transaction: snapshot the cart joined with live prices and stock,
// re-validate every line against current stock, create the order and its
// item snapshots, decrement stock, clear the cart. Any failure rolls the
// whole sequence back.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, shippingAddress, paymentMethod string) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := r.cartSnapshot(tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if int64(line.Quantity) > int64(line.Stock) {
				return &apperr.StockError{
					ProductID: line.ProductID,
					Requested: line.Quantity,
					Available: line.Stock,
				}
			}
			lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}

		order = models.Order{
			UserID:          userID,
			TotalAmount:     total,
			ShippingAddress: shippingAddress,
			PaymentMethod:   paymentMethod,
			Status:          models.OrderStatusPending,
			Items:           items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			if err := r.decrementStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// cartSnapshot reads the cart joined with the catalog. On postgres the
// matching product rows are locked FOR UPDATE, ordered by product id so
// concurrent checkouts acquire locks in a consistent order.
func (r *GormRepo) cartSnapshot(tx *gorm.DB, userID uint) ([]checkoutLine, error) {
	q := tx.Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.price, products.stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.product_id ASC")
	if r.lockingSupported(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "products"}})
	}

	var lines []checkoutLine
	if err := q.Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// decrementStock is a guarded compare-and-swap: the WHERE clause re-checks
// stock at write time, so a concurrent decrement that raced past the
// snapshot check cannot drive stock negative.
func (r *GormRepo) decrementStock(tx *gorm.DB, productID, quantity uint) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current models.Product
		available := 0
		if err := tx.First(&current, productID).Error; err == nil {
			available = current.Stock
		}
		return &apperr.StockError{ProductID: productID, Requested: quantity, Available: available}
	}
	return nil
}

// ListOrdersByUser returns the user's orders newest-first with their items
// attached. An order without items violates the creation invariant and is
// reported as corruption, not as an empty order.
func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if len(orders[i].Items) == 0 {
			return nil, fmt.Errorf("order %d has no items: data integrity fault", orders[i].ID)
		}
	}
	return orders, nil
}
