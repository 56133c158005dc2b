package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

type dishLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
}

// Service exposes per-user cart operations backed by a Store.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (Aggregate, error)
	AddDish(ctx context.Context, userID, dishID uuid.UUID) (Aggregate, error)
	RemoveDish(ctx context.Context, userID, dishID uuid.UUID) (Aggregate, error)
	UpdateQuantity(ctx context.Context, userID, dishID uuid.UUID, quantity int) (Aggregate, error)
	Clear(ctx context.Context, userID uuid.UUID) (Aggregate, error)
}

type service struct {
	store  Store
	dishes dishLoader

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewService builds a cart service backed by the provided stack.
func NewService(store Store, dishes dishLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if dishes == nil {
		return nil, fmt.Errorf("dish loader required")
	}
	return &service{
		store:  store,
		dishes: dishes,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}, nil
}

// userLock returns the mutex guarding one user's cart. Locks are never
// reclaimed; the map stays small because keys are bounded by active users.
func (s *service) userLock(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (Aggregate, error) {
	if userID == uuid.Nil {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.store.Load(ctx, userID)
}

func (s *service) AddDish(ctx context.Context, userID, dishID uuid.UUID) (Aggregate, error) {
	if userID == uuid.Nil {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if dishID == uuid.Nil {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "dish id is required")
	}

	dish, err := s.dishes.FindByID(ctx, dishID)
	if err != nil {
		return Aggregate{}, err
	}
	if !dish.IsAvailable {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "dish is not available")
	}

	return s.mutate(ctx, userID, AddDish{Dish: DishSnapshot{
		ID:          dish.ID,
		Name:        dish.Name,
		Description: dish.Description,
		Price:       dish.Price,
		ImageURL:    dish.ImageURL,
	}})
}

func (s *service) RemoveDish(ctx context.Context, userID, dishID uuid.UUID) (Aggregate, error) {
	if userID == uuid.Nil {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.mutate(ctx, userID, RemoveDish{DishID: dishID})
}

func (s *service) UpdateQuantity(ctx context.Context, userID, dishID uuid.UUID, quantity int) (Aggregate, error) {
	if userID == uuid.Nil {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.mutate(ctx, userID, UpdateQuantity{DishID: dishID, Quantity: quantity})
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (Aggregate, error) {
	if userID == uuid.Nil {
		return Aggregate{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.mutate(ctx, userID, Clear{})
}

// mutate loads, reduces, and persists under the user's lock so concurrent
// requests for the same cart serialize instead of clobbering each other.
func (s *service) mutate(ctx context.Context, userID uuid.UUID, cmd Command) (Aggregate, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	agg, err := s.store.Load(ctx, userID)
	if err != nil {
		return Aggregate{}, err
	}
	next := agg.Apply(cmd)
	if err := s.store.Save(ctx, userID, next); err != nil {
		return Aggregate{}, err
	}
	return next, nil
}
