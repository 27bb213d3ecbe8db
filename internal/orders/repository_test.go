package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sanmiadewale/modaville-backend/pkg/db/models"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	"github.com/sanmiadewale/modaville-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  payment_reference TEXT NOT NULL UNIQUE,
  temp_reference TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'paystack',
  payment_channel TEXT,
  currency TEXT NOT NULL DEFAULT 'NGN',
  subtotal NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  shipping_address TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemsTable := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  image TEXT,
  qty INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ordersTable).Error)
	require.NoError(t, conn.Exec(itemsTable).Error)
	return conn
}

func mustCreateTestOrder(t *testing.T, repo *Repository, userID uuid.UUID, reference string, total string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:               uuid.New(),
		UserID:           userID,
		PaymentReference: reference,
		TempReference:    "TEMP-" + reference,
		Status:           enums.OrderStatusPaid,
		PaymentStatus:    enums.PaymentStatusPaid,
		Currency:         enums.CurrencyNGN,
		Subtotal:         decimal.RequireFromString(total),
		Tax:              decimal.Zero,
		Total:            decimal.RequireFromString(total),
		Items: []models.OrderLineItem{{
			Name:      "Ankara Wrap Dress",
			Qty:       1,
			UnitPrice: decimal.RequireFromString(total),
			Total:     decimal.RequireFromString(total),
		}},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestFindByPaymentReference(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created := mustCreateTestOrder(t, repo, uuid.New(), "PSK-001", "45.00", time.Now().UTC())

	found, err := repo.FindByPaymentReference(ctx, "PSK-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Ankara Wrap Dress", found.Items[0].Name)

	_, err = repo.FindByPaymentReference(ctx, "PSK-unknown")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentReferenceUniqueness(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	mustCreateTestOrder(t, repo, uuid.New(), "PSK-dup", "45.00", time.Now().UTC())

	dup := &models.Order{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		PaymentReference: "PSK-dup",
		Subtotal:         decimal.Zero,
		Tax:              decimal.Zero,
		Total:            decimal.Zero,
	}
	require.Error(t, repo.Create(context.Background(), dup))
}

func TestFindByTempReference(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created := mustCreateTestOrder(t, repo, uuid.New(), "PSK-002", "18.50", time.Now().UTC())

	found, err := repo.FindByTempReference(ctx, "TEMP-PSK-002")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestListByUserPagination(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateTestOrder(t, repo, userID, fmt.Sprintf("PSK-u-%d", i), "10.00", base.Add(time.Duration(i)*time.Minute))
	}
	mustCreateTestOrder(t, repo, otherID, "PSK-other", "99.00", base.Add(time.Hour))

	page1, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1.Orders, 3)
	require.NotNil(t, page1.NextCursor)
	assert.Equal(t, "PSK-u-4", page1.Orders[0].PaymentReference)

	page2, err := repo.ListByUser(ctx, userID, pagination.Params{
		Limit:  3,
		Cursor: *page1.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, page2.Orders, 2)
	assert.Nil(t, page2.NextCursor)
	assert.Equal(t, "PSK-u-0", page2.Orders[1].PaymentReference)

	for _, row := range append(page1.Orders, page2.Orders...) {
		assert.Equal(t, userID, row.UserID)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	shipped := mustCreateTestOrder(t, repo, uuid.New(), "PSK-s-1", "10.00", base)
	require.NoError(t, repo.UpdateStatus(ctx, shipped.ID, enums.OrderStatusShipped.String()))
	mustCreateTestOrder(t, repo, uuid.New(), "PSK-s-2", "10.00", base.Add(time.Minute))

	result, err := repo.List(ctx, orderListQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters:    OrderListFilters{Status: enums.OrderStatusShipped.String()},
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, shipped.ID, result.Orders[0].ID)
}

func TestListRejectsMalformedCursor(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.List(context.Background(), orderListQuery{
		Pagination: pagination.Params{Limit: 10, Cursor: "not-base64!"},
	})
	require.Error(t, err)
}
