package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
)

// Order is the persisted record produced by checkout reconciliation.
// PaymentReference is unique so racing reconciliation triggers converge
// on a single row.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	PaymentReference string                `gorm:"column:payment_reference;not null;uniqueIndex:idx_orders_payment_reference"`
	TempReference    string                `gorm:"column:temp_reference;not null;index"`
	Status           enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus    enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod    string                `gorm:"column:payment_method;not null;default:'paystack'"`
	PaymentChannel   *enums.PaymentChannel `gorm:"column:payment_channel;type:text"`
	Currency         enums.Currency        `gorm:"column:currency;type:text;not null;default:'NGN'"`
	Subtotal         decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax              decimal.Decimal       `gorm:"column:tax;type:numeric(12,2);not null"`
	Total            decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingAddress  types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items            []OrderLineItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt           *time.Time            `gorm:"column:paid_at"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem captures the snapshot of each item within an order.
type OrderLineItem struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID *uuid.UUID           `gorm:"column:product_id;type:uuid"`
	Name      string               `gorm:"column:name;not null"`
	Category  string               `gorm:"column:category;not null"`
	Brand     string               `gorm:"column:brand;not null"`
	Image     types.ImageSelection `gorm:"column:image;type:jsonb;serializer:json"`
	Qty       int                  `gorm:"column:qty;not null"`
	UnitPrice decimal.Decimal      `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Total     decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
