package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// memoryStore stands in for Redis; missing keys answer redis.Nil like the
// real client does.
type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func (m *memoryStore) lookup(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func newTestManager(store *memoryStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMemoryStore()
	manager := newTestManager(store)
	ctx := context.Background()

	const accessID = "access-123"
	token, err := manager.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stored, _ := store.lookup(store.AccessSessionKey(accessID)); stored != token {
		t.Fatalf("stored token = %q, want %q", stored, token)
	}

	// A wrong token must not rotate anything.
	if _, _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("rotate with wrong token: got %v, want ErrInvalidRefreshToken", err)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, exists := store.lookup(store.AccessSessionKey(accessID)); exists {
		t.Fatal("old session key survived rotation")
	}
	if stored, _ := store.lookup(store.AccessSessionKey(newAccessID)); stored != newToken {
		t.Fatalf("new session stored %q, want %q", stored, newToken)
	}
}

func TestManagerRevokeAndHasSession(t *testing.T) {
	manager := newTestManager(newMemoryStore())
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "access-9"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	active, err := manager.HasSession(ctx, "access-9")
	if err != nil || !active {
		t.Fatalf("HasSession after generate: active=%v err=%v", active, err)
	}

	if err := manager.Revoke(ctx, "access-9"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	active, err = manager.HasSession(ctx, "access-9")
	if err != nil {
		t.Fatalf("HasSession after revoke: %v", err)
	}
	if active {
		t.Fatal("session still active after revoke")
	}
}

func TestManagerRotateUnknownAccessID(t *testing.T) {
	manager := newTestManager(newMemoryStore())

	_, _, err := manager.Rotate(context.Background(), "never-seen", "token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("rotate unknown session: got %v, want ErrInvalidRefreshToken", err)
	}
}
