package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sanmiadewale/modaville-backend/pkg/types"
)

// Cart is the durable snapshot of a shopper's basket. One per user.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one line in the cart. The (cart_id, product_id) unique index
// enforces at most one line per product; re-adding increments quantity.
type CartItem struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID            `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID   uuid.UUID            `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Name        string               `gorm:"column:name;not null"`
	Description string               `gorm:"column:description;not null"`
	Category    string               `gorm:"column:category;not null"`
	Brand       string               `gorm:"column:brand;not null"`
	Image       types.ImageSelection `gorm:"column:image;type:jsonb;serializer:json"`
	Qty         int                  `gorm:"column:qty;not null"`
	UnitPrice   decimal.Decimal      `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Position    int                  `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
