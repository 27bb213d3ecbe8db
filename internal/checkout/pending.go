package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// ErrPendingNotFound reports that no pending order payload exists for the
// user. Confirmation treats this as fatal; there is nothing to reconcile.
var ErrPendingNotFound = errors.New("pending order payload not found")

// PendingItem is one snapshotted cart line frozen at Begin time.
type PendingItem struct {
	ProductID uuid.UUID            `json:"product_id"`
	Name      string               `json:"name"`
	Category  string               `json:"category"`
	Brand     string               `json:"brand"`
	Image     types.ImageSelection `json:"image"`
	Qty       int                  `json:"qty"`
	UnitPrice decimal.Decimal      `json:"unit_price"`
	Total     decimal.Decimal      `json:"total"`
}

// PendingOrder is the payload handed from Begin to Confirm through Redis.
// It carries everything needed to persist the order once payment clears, so
// confirmation never re-reads the live cart.
type PendingOrder struct {
	UserID          uuid.UUID             `json:"user_id"`
	TempReference   string                `json:"temp_reference"`
	Items           []PendingItem         `json:"items"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	AmountMinor     int64                 `json:"amount_minor"`
	Currency        string                `json:"currency"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	CreatedAt       time.Time             `json:"created_at"`
}

// pendingKV is the slice of pkg/redis the pending store needs.
type pendingKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PendingOrderKey(userID string) string
	TempRefKey(userID string) string
}

// PendingStore persists the pending order payload and its temporary
// reference under TTL-bound session keys. An orphaned payload (shopper
// walks away mid-payment) is reclaimed by the TTL, never swept manually.
type PendingStore struct {
	kv  pendingKV
	ttl time.Duration
}

// NewPendingStore builds a store writing through the given Redis client.
func NewPendingStore(kv pendingKV, ttl time.Duration) (*PendingStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("pending TTL must be positive")
	}
	return &PendingStore{kv: kv, ttl: ttl}, nil
}

// Save writes the payload and the temp reference for the user, both TTL-bound.
func (s *PendingStore) Save(ctx context.Context, pending *PendingOrder) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending order: %w", err)
	}
	userKey := pending.UserID.String()
	if err := s.kv.Set(ctx, s.kv.PendingOrderKey(userKey), payload, s.ttl); err != nil {
		return fmt.Errorf("store pending order: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.TempRefKey(userKey), pending.TempReference, s.ttl); err != nil {
		return fmt.Errorf("store temp reference: %w", err)
	}
	return nil
}

// Load reads the payload for the user. Missing or expired payloads surface
// as ErrPendingNotFound.
func (s *PendingStore) Load(ctx context.Context, userID uuid.UUID) (*PendingOrder, error) {
	raw, err := s.kv.Get(ctx, s.kv.PendingOrderKey(userID.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("load pending order: %w", err)
	}
	var pending PendingOrder
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, fmt.Errorf("decode pending order: %w", err)
	}
	return &pending, nil
}

// TempReference reads the stored temp reference for the user.
func (s *PendingStore) TempReference(ctx context.Context, userID uuid.UUID) (string, error) {
	ref, err := s.kv.Get(ctx, s.kv.TempRefKey(userID.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrPendingNotFound
		}
		return "", fmt.Errorf("load temp reference: %w", err)
	}
	return ref, nil
}

// Clear removes both session keys for the user.
func (s *PendingStore) Clear(ctx context.Context, userID uuid.UUID) error {
	userKey := userID.String()
	return s.kv.Del(ctx, s.kv.PendingOrderKey(userKey), s.kv.TempRefKey(userKey))
}
