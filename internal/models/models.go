package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                     json:"-"`
	FullName     string    `gorm:"size:100;not null"            json:"full_name"`
	IsActive     bool      `gorm:"not null;default:true"        json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;not null"        json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name        string          `gorm:"size:200;not null"                 json:"name"`
	Description string          `gorm:"not null"                          json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"       json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock>=0" json:"stock"`
	CategoryID  uint            `gorm:"index;not null"                    json:"category_id"`
	ImageURL    string          `gorm:"size:500"                          json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CartItem holds one pending purchase line. The (user, product) pair is
// unique: repeated adds accumulate quantity on the same row.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity>0"        json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

const OrderStatusPending = "pending"

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID          uint            `gorm:"index;not null"              json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ShippingAddress string          `gorm:"not null"                    json:"shipping_address"`
	PaymentMethod   string          `gorm:"size:50;not null"            json:"payment_method"`
	Status          string          `gorm:"size:20;not null"            json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"          json:"items"`
}

// OrderItem snapshots quantity and the unit price observed at checkout.
// The price is frozen: later catalog price changes never touch it.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Quantity  uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID    uint      `gorm:"index;not null"       json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}
