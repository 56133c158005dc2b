package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type stubCartKV struct {
	data map[string]string
}

func newStubCartKV() *stubCartKV {
	return &stubCartKV{data: make(map[string]string)}
}

func (s *stubCartKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = fmt.Sprint(value)
	return nil
}

func (s *stubCartKV) Get(ctx context.Context, key string) (string, error) {
	val, ok := s.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (s *stubCartKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubCartKV) CartKey(userID string) string {
	return "ce:cart:" + userID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	kv := newStubCartKV()
	store := &RedisStore{kv: kv, ttl: time.Hour}
	ctx := context.Background()
	userID := uuid.New()

	dish := DishSnapshot{
		ID:    uuid.New(),
		Name:  "Poulet curry",
		Price: decimal.RequireFromString("10.99"),
	}
	agg := NewAggregate().Apply(AddDish{Dish: dish}).Apply(AddDish{Dish: dish})

	if err := store.Save(ctx, userID, agg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.QuantityOf(dish.ID); got != 2 {
		t.Fatalf("expected quantity 2 after reload, got %d", got)
	}
	if !loaded.TotalAmount().Equal(decimal.RequireFromString("21.98")) {
		t.Fatalf("unexpected total %s", loaded.TotalAmount())
	}
}

func TestRedisStoreMissingCartLoadsEmpty(t *testing.T) {
	store := &RedisStore{kv: newStubCartKV(), ttl: time.Hour}

	agg, err := store.Load(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !agg.IsEmpty() {
		t.Fatalf("expected empty cart for unknown user")
	}
}

func TestRedisStoreCorruptPayloadResets(t *testing.T) {
	kv := newStubCartKV()
	store := &RedisStore{kv: kv, ttl: time.Hour}
	userID := uuid.New()
	kv.data[kv.CartKey(userID.String())] = "{not json"

	agg, err := store.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !agg.IsEmpty() {
		t.Fatalf("corrupt payload must reset to empty cart")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	kv := newStubCartKV()
	store := &RedisStore{kv: kv, ttl: time.Hour}
	ctx := context.Background()
	userID := uuid.New()

	agg := NewAggregate().Apply(AddDish{Dish: DishSnapshot{
		ID:    uuid.New(),
		Name:  "Salade César",
		Price: decimal.RequireFromString("7.50"),
	}})
	if err := store.Save(ctx, userID, agg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	loaded, err := store.Load(ctx, userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.IsEmpty() {
		t.Fatalf("expected empty cart after delete")
	}
}
