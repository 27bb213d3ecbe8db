package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"gorm.io/gorm"
)

// Quantity bounds enforced on every line. The DB carries the same CHECK.
const (
	MinItemQty = 1
	MaxItemQty = 99
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// productCatalog is the slice of the catalog the cart needs to snapshot
// live product data into a new line.
type productCatalog interface {
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service is the single write path for a shopper's basket.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*DTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, image types.ImageSelection) (*DTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*DTO, error)
	IncreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*DTO, error)
	DecreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*DTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo    *Repository
	catalog productCatalog
	tx      txRunner
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, catalog productCatalog, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, catalog: catalog, tx: tx}, nil
}

// GetCart returns the current snapshot with freshly folded totals. A user
// without a cart row gets an empty cart, not an error.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*DTO, error) {
	cart, err := s.repo.LoadWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmptyDTO(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewDTO(cart), nil
}

// AddItem puts one unit of the product in the cart. An existing line for the
// same product gains a unit instead of duplicating; the quantity never rises
// past the cap, but the call still succeeds.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, image types.ImageSelection) (*DTO, error) {
	product, err := s.catalog.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if image.IsZero() && len(product.Images) > 0 {
		first := product.Images[0]
		image = types.ImageSelection{Color: first.Color, ColorCode: first.ColorCode, URL: first.URL}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindOrCreateByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find or create cart")
		}

		item, err := txRepo.FindItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			if item.Qty >= MaxItemQty {
				return nil
			}
			if err := txRepo.UpdateItemQty(ctx, item.ID, item.Qty+1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: bump cart item qty")
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			position, err := txRepo.NextPosition(ctx, cart.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count cart items")
			}
			line := &models.CartItem{
				CartID:      cart.ID,
				ProductID:   product.ID,
				Name:        product.Name,
				Description: product.Description,
				Category:    product.Category,
				Brand:       product.Brand,
				Image:       image,
				Qty:         1,
				UnitPrice:   product.Price,
				Position:    position,
			}
			if err := txRepo.CreateItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart item")
			}
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart item")
		}
	}); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem drops the product's line entirely. Removing a product that is
// not in the cart is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*DTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmptyDTO(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if _, err := s.repo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart item")
	}
	return s.GetCart(ctx, userID)
}

// IncreaseQuantity adds one unit to an existing line, up to the cap.
func (s *service) IncreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*DTO, error) {
	return s.adjustQuantity(ctx, userID, productID, +1)
}

// DecreaseQuantity removes one unit from an existing line, down to the floor.
// Dropping to zero is never allowed; the line must be removed instead.
func (s *service) DecreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*DTO, error) {
	return s.adjustQuantity(ctx, userID, productID, -1)
}

func (s *service) adjustQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (*DTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart item")
	}

	next := item.Qty + delta
	if next > MaxItemQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "maximum quantity reached")
	}
	if next < MinItemQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum quantity reached")
	}

	if err := s.repo.UpdateItemQty(ctx, item.ID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart item qty")
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the snapshot. A missing cart is already empty.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteAllItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}
