package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand"`
	Price       decimal.Decimal   `json:"price"`
	Tags        []string          `json:"tags"`
	IsActive    bool              `json:"is_active"`
	IsFeatured  bool              `json:"is_featured"`
	Images      []ProductImageDTO `json:"images,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductImageDTO captures one color variant image.
type ProductImageDTO struct {
	ID        uuid.UUID `json:"id"`
	Color     string    `json:"color,omitempty"`
	ColorCode string    `json:"color_code,omitempty"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
}

// ProductSummary is the compact row shape used by catalog listings.
type ProductSummary struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Brand      string          `json:"brand"`
	Price      decimal.Decimal `json:"price"`
	IsActive   bool            `json:"is_active"`
	IsFeatured bool            `json:"is_featured"`
	ImageURL   *string         `json:"image_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResult pairs a page of summaries with the next cursor.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Brand:       product.Brand,
		Price:       product.Price,
		Tags:        append([]string{}, product.Tags...),
		IsActive:    product.IsActive,
		IsFeatured:  product.IsFeatured,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	if len(product.Images) > 0 {
		dto.Images = make([]ProductImageDTO, len(product.Images))
		for i, img := range product.Images {
			dto.Images[i] = ProductImageDTO{
				ID:        img.ID,
				Color:     img.Color,
				ColorCode: img.ColorCode,
				URL:       img.URL,
				Position:  img.Position,
			}
		}
	}

	return dto
}
