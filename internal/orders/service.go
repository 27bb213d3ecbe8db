package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes order history for shoppers and the admin back-office views.
type Service interface {
	GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, filters OrderListFilters, params pagination.Params) (*OrderListResult, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an orders service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// GetOrderForUser loads one order and refuses to leak other shoppers' orders.
func (s *service) GetOrderForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		// Present the same face as a missing order.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

// ListOrdersForUser pages through a shopper's own order history.
func (s *service) ListOrdersForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	result, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

// GetOrder loads any order; admin path.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderDTO(order), nil
}

// ListOrders pages through all orders with optional status filters; admin path.
func (s *service) ListOrders(ctx context.Context, filters OrderListFilters, params pagination.Params) (*OrderListResult, error) {
	if filters.Status != "" {
		if _, err := enums.ParseOrderStatus(filters.Status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
		}
	}
	if filters.PaymentStatus != "" {
		if _, err := enums.ParsePaymentStatus(filters.PaymentStatus); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status filter")
		}
	}
	result, err := s.repo.List(ctx, orderListQuery{Pagination: params, Filters: filters})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

// UpdateOrderStatus applies an admin fulfillment transition. Only forward
// moves defined by the status machine are allowed.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status == next {
		return NewOrderDTO(order), nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next),
		)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	order.Status = next
	return NewOrderDTO(order), nil
}
