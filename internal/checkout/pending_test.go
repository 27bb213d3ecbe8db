package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type stubKV struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newStubKV() *stubKV {
	return &stubKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case string:
		s.values[key] = v
	case []byte:
		s.values[key] = string(v)
	default:
		return errors.New("unexpected value type")
	}
	s.ttls[key] = ttl
	return nil
}

func (s *stubKV) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (s *stubKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
		delete(s.ttls, key)
	}
	return nil
}

func (s *stubKV) PendingOrderKey(userID string) string {
	return "mv:checkout:pending_order:" + userID
}

func (s *stubKV) TempRefKey(userID string) string {
	return "mv:checkout:temp_ref:" + userID
}

func testPendingOrder(userID uuid.UUID) *PendingOrder {
	return &PendingOrder{
		UserID:        userID,
		TempReference: "TEMP-1770000000000",
		Items: []PendingItem{{
			ProductID: uuid.New(),
			Name:      "Ankara Wrap Dress",
			Qty:       2,
			UnitPrice: decimal.RequireFromString("45.00"),
			Total:     decimal.RequireFromString("90.00"),
		}},
		Subtotal:      decimal.RequireFromString("90.00"),
		Tax:           decimal.RequireFromString("4.50"),
		Total:         decimal.RequireFromString("94.50"),
		AmountMinor:   9450,
		Currency:      "NGN",
		PaymentMethod: "paystack",
		CreatedAt:     time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPendingStoreRoundTrip(t *testing.T) {
	kv := newStubKV()
	store, err := NewPendingStore(kv, time.Hour)
	if err != nil {
		t.Fatalf("NewPendingStore: %v", err)
	}
	ctx := context.Background()
	userID := uuid.New()
	pending := testPendingOrder(userID)

	if err := store.Save(ctx, pending); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, userID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.TempReference != pending.TempReference {
		t.Fatalf("expected temp reference %q, got %q", pending.TempReference, loaded.TempReference)
	}
	if loaded.AmountMinor != 9450 {
		t.Fatalf("expected amount minor 9450, got %d", loaded.AmountMinor)
	}
	if !loaded.Total.Equal(pending.Total) {
		t.Fatalf("expected total %s, got %s", pending.Total, loaded.Total)
	}

	ref, err := store.TempReference(ctx, userID)
	if err != nil {
		t.Fatalf("TempReference: %v", err)
	}
	if ref != pending.TempReference {
		t.Fatalf("expected %q, got %q", pending.TempReference, ref)
	}
}

func TestPendingStoreKeysAreTTLBound(t *testing.T) {
	kv := newStubKV()
	store, err := NewPendingStore(kv, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewPendingStore: %v", err)
	}
	userID := uuid.New()
	if err := store.Save(context.Background(), testPendingOrder(userID)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for key, ttl := range kv.ttls {
		if ttl != 24*time.Hour {
			t.Fatalf("expected 24h TTL on %q, got %s", key, ttl)
		}
	}
	if len(kv.ttls) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(kv.ttls))
	}
}

func TestPendingStoreLoadMissing(t *testing.T) {
	store, err := NewPendingStore(newStubKV(), time.Hour)
	if err != nil {
		t.Fatalf("NewPendingStore: %v", err)
	}
	if _, err := store.Load(context.Background(), uuid.New()); !errors.Is(err, ErrPendingNotFound) {
		t.Fatalf("expected ErrPendingNotFound, got %v", err)
	}
	if _, err := store.TempReference(context.Background(), uuid.New()); !errors.Is(err, ErrPendingNotFound) {
		t.Fatalf("expected ErrPendingNotFound, got %v", err)
	}
}

func TestPendingStoreClear(t *testing.T) {
	kv := newStubKV()
	store, err := NewPendingStore(kv, time.Hour)
	if err != nil {
		t.Fatalf("NewPendingStore: %v", err)
	}
	ctx := context.Background()
	userID := uuid.New()
	if err := store.Save(ctx, testPendingOrder(userID)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(ctx, userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(ctx, userID); !errors.Is(err, ErrPendingNotFound) {
		t.Fatalf("expected ErrPendingNotFound after clear, got %v", err)
	}
}

func TestNewPendingStoreValidation(t *testing.T) {
	if _, err := NewPendingStore(nil, time.Hour); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewPendingStore(newStubKV(), 0); err == nil {
		t.Fatal("expected error for zero TTL")
	}
}
