package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null"`
	Category    string          `gorm:"column:category;not null;index"`
	Brand       string          `gorm:"column:brand;not null;index"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Tags        pq.StringArray  `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	// No gorm default tag: gorm drops zero-value fields that carry one
	// on INSERT, which would store an inactive product as active.
	IsActive    bool            `gorm:"column:is_active;not null"`
	IsFeatured  bool            `gorm:"column:is_featured;not null;default:false"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage is one color variant of a product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Color     string    `gorm:"column:color;not null"`
	ColorCode string    `gorm:"column:color_code;not null"`
	URL       string    `gorm:"column:url;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
