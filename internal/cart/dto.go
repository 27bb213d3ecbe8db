package cart

import (
	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// ItemDTO is the API shape of one cart line.
type ItemDTO struct {
	ProductID   uuid.UUID            `json:"product_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Brand       string               `json:"brand"`
	Image       types.ImageSelection `json:"image"`
	Qty         int                  `json:"qty"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	LineTotal   decimal.Decimal      `json:"line_total"`
}

// DTO is the API shape of the whole cart. Totals are folded fresh from the
// lines on every build, never stored.
type DTO struct {
	Items       []ItemDTO       `json:"items"`
	TotalQty    int             `json:"total_qty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewDTO folds a cart snapshot into its API shape.
func NewDTO(cart *models.Cart) *DTO {
	dto := &DTO{
		Items:       make([]ItemDTO, 0, len(cart.Items)),
		TotalAmount: decimal.Zero,
	}
	for _, item := range cart.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))
		dto.Items = append(dto.Items, ItemDTO{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			Category:    item.Category,
			Brand:       item.Brand,
			Image:       item.Image,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
		})
		dto.TotalQty += item.Qty
		dto.TotalAmount = dto.TotalAmount.Add(lineTotal)
	}
	return dto
}

// EmptyDTO is the cart shape for a user with no cart row yet.
func EmptyDTO() *DTO {
	return &DTO{Items: []ItemDTO{}, TotalAmount: decimal.Zero}
}
