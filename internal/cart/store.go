package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	redisclient "github.com/campuseats/campuseats-backend/pkg/redis"
)

// Store persists cart lines between requests. A missing cart loads as empty.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (Aggregate, error)
	Save(ctx context.Context, userID uuid.UUID, agg Aggregate) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// MemoryStore keeps carts in-process. Used by tests and single-node dev runs.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]Line
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID][]Line)}
}

func (m *MemoryStore) Load(ctx context.Context, userID uuid.UUID) (Aggregate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines, ok := m.carts[userID]
	if !ok {
		return NewAggregate(), nil
	}
	return NewAggregateFromLines(lines), nil
}

func (m *MemoryStore) Save(ctx context.Context, userID uuid.UUID, agg Aggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = agg.Lines()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

type cartKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

// RedisStore keeps carts as JSON blobs in Redis so they survive instance
// restarts within the configured TTL.
type RedisStore struct {
	kv  cartKV
	ttl time.Duration
}

// NewRedisStore builds a Redis-backed cart store.
func NewRedisStore(client *redisclient.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("cart ttl must be positive")
	}
	return &RedisStore{kv: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, userID uuid.UUID) (Aggregate, error) {
	raw, err := r.kv.Get(ctx, r.kv.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return NewAggregate(), nil
		}
		return Aggregate{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// Corrupt payloads reset to an empty cart rather than wedging the user.
		return NewAggregate(), nil
	}
	return NewAggregateFromLines(lines), nil
}

func (r *RedisStore) Save(ctx context.Context, userID uuid.UUID, agg Aggregate) error {
	payload, err := json.Marshal(agg.Lines())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := r.kv.Set(ctx, r.kv.CartKey(userID.String()), string(payload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.kv.Del(ctx, r.kv.CartKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
