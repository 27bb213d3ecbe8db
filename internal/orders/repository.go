package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together order persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order with its line items in one statement tree.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads one order with its line items.
func (r *Repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByPaymentReference resolves an order by its gateway reference. The
// unique index on payment_reference makes this the idempotency lookup for
// checkout reconciliation.
func (r *Repository) FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "payment_reference = ?", reference).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByTempReference resolves an order by the temporary checkout reference.
func (r *Repository) FindByTempReference(ctx context.Context, tempReference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "temp_reference = ?", tempReference).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus sets the fulfillment status on an order.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).
		Error
}

// OrderListFilters narrows the admin order listing.
type OrderListFilters struct {
	Status        string
	PaymentStatus string
	UserID        *uuid.UUID
}

type orderListQuery struct {
	Pagination pagination.Params
	Filters    OrderListFilters
}

// OrderListResult is one page of orders plus the continuation cursor.
type OrderListResult struct {
	Orders     []OrderSummary
	NextCursor *string
}

// List pages through orders newest-first. Filters are optional.
func (r *Repository) List(ctx context.Context, q orderListQuery) (*OrderListResult, error) {
	limit := pagination.NormalizeLimit(q.Pagination.Limit)

	cursor, err := pagination.ParseCursor(q.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if q.Filters.UserID != nil {
		query = query.Where("user_id = ?", *q.Filters.UserID)
	}
	if status := strings.TrimSpace(q.Filters.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := strings.TrimSpace(q.Filters.PaymentStatus); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	result := &OrderListResult{Orders: make([]OrderSummary, 0, len(rows))}
	var lastCreatedAt time.Time
	var lastID uuid.UUID
	for i, row := range rows {
		if i == limit {
			token := pagination.EncodeCursor(pagination.Cursor{CreatedAt: lastCreatedAt, ID: lastID})
			result.NextCursor = &token
			break
		}
		result.Orders = append(result.Orders, NewOrderSummary(&row))
		lastCreatedAt = row.CreatedAt
		lastID = row.ID
	}
	return result, nil
}

// ListByUser pages through a shopper's own orders newest-first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	return r.List(ctx, orderListQuery{
		Pagination: params,
		Filters:    OrderListFilters{UserID: &userID},
	})
}
