package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/internal/cart"
	"github.com/campuseats/campuseats-backend/internal/orders"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

type stubCartGateway struct {
	mu    sync.Mutex
	carts map[uuid.UUID]cart.Aggregate
}

func newStubCartGateway() *stubCartGateway {
	return &stubCartGateway{carts: make(map[uuid.UUID]cart.Aggregate)}
}

func (s *stubCartGateway) Get(ctx context.Context, userID uuid.UUID) (cart.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[userID], nil
}

func (s *stubCartGateway) Clear(ctx context.Context, userID uuid.UUID) (cart.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = cart.NewAggregate()
	return s.carts[userID], nil
}

func (s *stubCartGateway) set(userID uuid.UUID, agg cart.Aggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = agg
}

type stubOrderCreator struct {
	mu      sync.Mutex
	calls   int
	inputs  []orders.CreateOrderInput
	err     error
	block   chan struct{}
	created *orders.OrderDTO
}

func (s *stubOrderCreator) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	s.mu.Lock()
	s.calls++
	s.inputs = append(s.inputs, input)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.created != nil {
		return s.created, nil
	}

	total := decimal.Zero
	for _, line := range input.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return &orders.OrderDTO{
		ID:               uuid.New(),
		UserID:           input.UserID,
		TotalAmount:      total,
		Status:           "en cours",
		DeliveryLocation: input.DeliveryLocation,
	}, nil
}

func (s *stubOrderCreator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func snapshotDish(name, price string) cart.DishSnapshot {
	return cart.DishSnapshot{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func filledCart() cart.Aggregate {
	curry := snapshotDish("Poulet curry", "10.99")
	lasagne := snapshotDish("Lasagnes végétariennes", "8.99")
	return cart.NewAggregate().
		Apply(cart.AddDish{Dish: curry}).
		Apply(cart.AddDish{Dish: curry}).
		Apply(cart.AddDish{Dish: lasagne})
}

func newFlow(t *testing.T, carts *stubCartGateway, creator *stubOrderCreator) Service {
	t.Helper()
	svc, err := NewService(carts, creator)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	carts := newStubCartGateway()
	creator := &stubOrderCreator{}
	svc := newFlow(t, carts, creator)
	userID := uuid.New()
	carts.set(userID, filledCart())

	result, err := svc.Submit(context.Background(), userID, "Salle A101")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.State != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", result.State)
	}
	if !result.Order.TotalAmount.Equal(decimal.RequireFromString("30.97")) {
		t.Fatalf("order total = %s, want 30.97", result.Order.TotalAmount)
	}

	live, _ := carts.Get(context.Background(), userID)
	if !live.IsEmpty() {
		t.Fatalf("cart must be empty after successful submission")
	}
}

func TestSubmitFailurePreservesCart(t *testing.T) {
	carts := newStubCartGateway()
	creator := &stubOrderCreator{err: pkgerrors.New(pkgerrors.CodeDependency, "order backend unavailable")}
	svc := newFlow(t, carts, creator)
	userID := uuid.New()
	carts.set(userID, filledCart())

	result, err := svc.Submit(context.Background(), userID, "Salle A101")
	if err == nil {
		t.Fatalf("expected error from failed submission")
	}
	if result.State != StateFailed {
		t.Fatalf("state = %s, want failed", result.State)
	}

	live, _ := carts.Get(context.Background(), userID)
	if live.IsEmpty() {
		t.Fatalf("cart must survive a failed submission")
	}
	if !live.TotalAmount().Equal(decimal.RequireFromString("30.97")) {
		t.Fatalf("cart total changed across failed submission: %s", live.TotalAmount())
	}
}

func TestSubmitValidationOrder(t *testing.T) {
	carts := newStubCartGateway()
	creator := &stubOrderCreator{}
	svc := newFlow(t, carts, creator)
	userID := uuid.New()

	// Empty cart wins over the missing location and the missing user.
	_, err := svc.Submit(context.Background(), uuid.Nil, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation || typed.Message() != "cart is empty" {
		t.Fatalf("expected empty-cart rejection, got %v", err)
	}

	// Filled cart but no location.
	carts.set(userID, filledCart())
	_, err = svc.Submit(context.Background(), userID, "   ")
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "delivery location is required" {
		t.Fatalf("expected missing-location rejection, got %v", err)
	}

	if creator.callCount() != 0 {
		t.Fatalf("rejected submissions must never reach the order backend, saw %d calls", creator.callCount())
	}
}

func TestSubmitRejectsReentrantSubmission(t *testing.T) {
	carts := newStubCartGateway()
	block := make(chan struct{})
	creator := &stubOrderCreator{block: block}
	svc := newFlow(t, carts, creator)
	userID := uuid.New()
	carts.set(userID, filledCart())

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), userID, "Salle A101")
		firstDone <- err
	}()

	// Wait until the first submission is inside the backend call.
	deadline := time.After(2 * time.Second)
	for creator.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("first submission never reached the backend")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	result, err := svc.Submit(context.Background(), userID, "Salle A101")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for re-entrant submit, got %v", err)
	}
	if result.State != StateRejected {
		t.Fatalf("re-entrant submit state = %s, want rejected", result.State)
	}

	close(block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if creator.callCount() != 1 {
		t.Fatalf("expected exactly one backend call, got %d", creator.callCount())
	}
}

func TestSubmitUsesFrozenSnapshot(t *testing.T) {
	carts := newStubCartGateway()
	userID := uuid.New()
	carts.set(userID, filledCart())

	extra := snapshotDish("Salade César", "7.50")
	creator := &stubOrderCreator{}
	svc := newFlow(t, carts, creator)

	// Mutate the live cart while the submission is in flight.
	block := make(chan struct{})
	creator.block = block
	done := make(chan *Result, 1)
	go func() {
		result, _ := svc.Submit(context.Background(), userID, "Salle A101")
		done <- result
	}()

	deadline := time.After(2 * time.Second)
	for creator.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("submission never reached the backend")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	live, _ := carts.Get(context.Background(), userID)
	carts.set(userID, live.Apply(cart.AddDish{Dish: extra}))
	close(block)

	result := <-done
	if result.State != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", result.State)
	}

	// The submitted request reflects the frozen snapshot, not the add.
	if len(creator.inputs) != 1 {
		t.Fatalf("expected one backend call")
	}
	for _, line := range creator.inputs[0].Lines {
		if line.DishID == extra.ID {
			t.Fatalf("mid-flight add leaked into the submitted snapshot")
		}
	}

	// The post-success clear empties the live aggregate, discarding the
	// mid-flight add with it.
	after, _ := carts.Get(context.Background(), userID)
	if !after.IsEmpty() {
		t.Fatalf("expected live cart emptied after success, got %d items", after.TotalItemCount())
	}
}

func TestSubmitUnauthenticatedWithFilledLocation(t *testing.T) {
	carts := newStubCartGateway()
	creator := &stubOrderCreator{}
	svc := newFlow(t, carts, creator)

	// Anonymous users cannot have a cart, so the empty-cart gate fires first;
	// this documents that unauthenticated is the last check.
	_, err := svc.Submit(context.Background(), uuid.Nil, "Salle A101")
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "cart is empty" {
		t.Fatalf("expected empty-cart rejection for anonymous user, got %v", err)
	}
	if creator.callCount() != 0 {
		t.Fatalf("no backend calls expected")
	}
}
