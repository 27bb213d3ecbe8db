package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// OrderSummary is the listing row shape.
type OrderSummary struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	PaymentReference string              `json:"payment_reference"`
	Status           enums.OrderStatus   `json:"status"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	Currency         enums.Currency      `json:"currency"`
	Total            decimal.Decimal     `json:"total"`
	CreatedAt        time.Time           `json:"created_at"`
}

// OrderDTO is the full order shape with line items.
type OrderDTO struct {
	ID               uuid.UUID             `json:"id"`
	UserID           uuid.UUID             `json:"user_id"`
	PaymentReference string                `json:"payment_reference"`
	TempReference    string                `json:"temp_reference"`
	Status           enums.OrderStatus     `json:"status"`
	PaymentStatus    enums.PaymentStatus   `json:"payment_status"`
	PaymentMethod    string                `json:"payment_method"`
	PaymentChannel   *enums.PaymentChannel `json:"payment_channel,omitempty"`
	Currency         enums.Currency        `json:"currency"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Tax              decimal.Decimal       `json:"tax"`
	Total            decimal.Decimal       `json:"total"`
	ShippingAddress  types.ShippingAddress `json:"shipping_address"`
	Items            []OrderLineItemDTO    `json:"items"`
	PaidAt           *time.Time            `json:"paid_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// OrderLineItemDTO is one snapshotted line of an order.
type OrderLineItemDTO struct {
	ProductID *uuid.UUID           `json:"product_id,omitempty"`
	Name      string               `json:"name"`
	Category  string               `json:"category"`
	Brand     string               `json:"brand"`
	Image     types.ImageSelection `json:"image"`
	Qty       int                  `json:"qty"`
	UnitPrice decimal.Decimal      `json:"unit_price"`
	Total     decimal.Decimal      `json:"total"`
}

// NewOrderSummary maps a row to its listing shape.
func NewOrderSummary(order *models.Order) OrderSummary {
	return OrderSummary{
		ID:               order.ID,
		UserID:           order.UserID,
		PaymentReference: order.PaymentReference,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		Currency:         order.Currency,
		Total:            order.Total,
		CreatedAt:        order.CreatedAt,
	}
}

// NewOrderDTO maps an order with items to its API shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:               order.ID,
		UserID:           order.UserID,
		PaymentReference: order.PaymentReference,
		TempReference:    order.TempReference,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		PaymentMethod:    order.PaymentMethod,
		PaymentChannel:   order.PaymentChannel,
		Currency:         order.Currency,
		Subtotal:         order.Subtotal,
		Tax:              order.Tax,
		Total:            order.Total,
		ShippingAddress:  order.ShippingAddress,
		Items:            make([]OrderLineItemDTO, 0, len(order.Items)),
		PaidAt:           order.PaidAt,
		CreatedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderLineItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Brand:     item.Brand,
			Image:     item.Image,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	return dto
}
