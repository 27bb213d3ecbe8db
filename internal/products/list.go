package products

import (
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category *string          `json:"category,omitempty"`
	Brand    *string          `json:"brand,omitempty"`
	PriceMin *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal `json:"price_max,omitempty"`
	Featured *bool            `json:"featured,omitempty"`
	Query    string           `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate and filter the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params

	// IncludeInactive is set on admin listings only. Storefront browse always
	// sees active products.
	IncludeInactive bool
}
