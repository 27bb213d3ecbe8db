package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog read paths and admin product management.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Brand       string
	Price       decimal.Decimal
	Tags        []string
	IsActive    bool
	IsFeatured  bool
	Images      []ProductImageInput
}

// ProductImageInput defines one color variant image.
type ProductImageInput struct {
	Color     string
	ColorCode string
	URL       string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Brand       *string
	Price       *decimal.Decimal
	Tags        *[]string
	IsActive    *bool
	IsFeatured  *bool
	Images      *[]ProductImageInput
}

// service implements the catalog service.
type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// GetProduct loads one product with its images.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

// ListProducts pages through the catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Filters.PriceMin != nil && input.Filters.PriceMax != nil && input.Filters.PriceMin.GreaterThan(*input.Filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}
	result, err := s.repo.ListProductSummaries(ctx, productListQuery{
		Pagination:      input.Pagination,
		Filters:         input.Filters,
		IncludeInactive: input.IncludeInactive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// CreateProduct inserts a product with its image variants.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.Category, input.Price); err != nil {
		return nil, err
	}
	images, err := buildImageRows(uuid.Nil, input.Images)
	if err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Category:    strings.TrimSpace(input.Category),
			Brand:       strings.TrimSpace(input.Brand),
			Price:       input.Price,
			Tags:        input.Tags,
			IsActive:    input.IsActive,
			IsFeatured:  input.IsFeatured,
		}

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if len(images) > 0 {
			for i := range images {
				images[i].ProductID = created.ID
			}
			if err := txRepo.ReplaceProductImages(ctx, created.ID, images); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product images")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.GetProductDetail(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

// UpdateProduct mutates the provided fields on an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	var images []models.ProductImage
	if input.Images != nil {
		images, err = buildImageRows(product.ID, *input.Images)
		if err != nil {
			return nil, err
		}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyUpdateToProduct(product, input)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return err
		}

		if input.Images != nil {
			if err := txRepo.ReplaceProductImages(ctx, product.ID, images); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.GetProductDetail(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product and relies on FK cascades for image rows.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func validateProductFields(name, category string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}

func buildImageRows(productID uuid.UUID, inputs []ProductImageInput) ([]models.ProductImage, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(inputs))
	rows := make([]models.ProductImage, 0, len(inputs))
	for idx, img := range inputs {
		url := strings.TrimSpace(img.URL)
		if url == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
		}
		if _, ok := seen[url]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate image urls")
		}
		seen[url] = struct{}{}

		rows = append(rows, models.ProductImage{
			ProductID: productID,
			Color:     strings.TrimSpace(img.Color),
			ColorCode: strings.TrimSpace(img.ColorCode),
			URL:       url,
			Position:  idx,
		})
	}
	return rows, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Tags != nil {
		product.Tags = append([]string(nil), *input.Tags...)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}
