package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/internal/cart"
	"github.com/campuseats/campuseats-backend/internal/orders"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

// State is the submission lifecycle phase reported back to callers. The flow
// itself keeps no state between submissions; every terminal outcome returns
// the per-user guard to idle.
type State string

const (
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateRejected  State = "rejected"
)

type cartGateway interface {
	Get(ctx context.Context, userID uuid.UUID) (cart.Aggregate, error)
	Clear(ctx context.Context, userID uuid.UUID) (cart.Aggregate, error)
}

type orderCreator interface {
	Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
}

// Result reports the outcome of one submission attempt.
type Result struct {
	State State            `json:"state"`
	Order *orders.OrderDTO `json:"order,omitempty"`
}

// Service runs the order submission flow: validate, freeze a cart snapshot,
// persist the order, then clear the cart.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, deliveryLocation string) (*Result, error)
}

type service struct {
	carts  cartGateway
	orders orderCreator

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewService builds the submission flow on top of the cart and order stacks.
func NewService(carts cartGateway, orderSvc orderCreator) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart gateway required")
	}
	if orderSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order creator required")
	}
	return &service{
		carts:    carts,
		orders:   orderSvc,
		inFlight: make(map[uuid.UUID]struct{}),
	}, nil
}

// Submit validates the cart, freezes a snapshot, and hands it to the orders
// service. The live cart is cleared only after the order is acknowledged; a
// failed persistence attempt leaves the cart intact for retry.
//
// Validation is ordered: an anonymous user with an empty cart hears about the
// cart first, not the missing login.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, deliveryLocation string) (*Result, error) {
	agg := cart.NewAggregate()
	if userID != uuid.Nil {
		loaded, err := s.carts.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		agg = loaded
	}

	if agg.IsEmpty() {
		return &Result{State: StateRejected}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(deliveryLocation) == "" {
		return &Result{State: StateRejected}, pkgerrors.New(pkgerrors.CodeValidation, "delivery location is required")
	}
	if userID == uuid.Nil {
		return &Result{State: StateRejected}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	if !s.acquire(userID) {
		// Re-entrant submits are rejected outright, never queued.
		return &Result{State: StateRejected}, pkgerrors.New(pkgerrors.CodeConflict, "a submission is already in flight")
	}
	defer s.release(userID)

	// Frozen snapshot: cart mutations from here on hit the live aggregate
	// only and never leak into this submission.
	lines := agg.Lines()
	input := orders.CreateOrderInput{
		UserID:           userID,
		DeliveryLocation: strings.TrimSpace(deliveryLocation),
		Lines:            make([]orders.OrderLineInput, 0, len(lines)),
	}
	for _, line := range lines {
		input.Lines = append(input.Lines, orders.OrderLineInput{
			DishID:      line.Dish.ID,
			Name:        line.Dish.Name,
			Description: line.Dish.Description,
			UnitPrice:   line.Dish.Price,
			Quantity:    line.Quantity,
			ImageURL:    line.Dish.ImageURL,
		})
	}

	order, err := s.orders.Create(ctx, input)
	if err != nil {
		return &Result{State: StateFailed}, err
	}

	// Clear strictly after the backend acknowledged the order. This empties
	// the live aggregate, so anything added mid-flight is discarded with it.
	if _, err := s.carts.Clear(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart after submission")
	}

	return &Result{State: StateSucceeded, Order: order}, nil
}

func (s *service) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *service) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}
