package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

type dishLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
}

type favoritesRepo interface {
	Add(ctx context.Context, userID, dishID uuid.UUID) error
	Remove(ctx context.Context, userID, dishID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	ListDishes(ctx context.Context, userID uuid.UUID) ([]models.Dish, error)
	Contains(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
}

// Service exposes business rules for dish bookmarks. Add and Remove are both
// idempotent: repeated adds collapse into one row, removing an absent
// favorite is a no-op.
type Service interface {
	Add(ctx context.Context, userID, dishID uuid.UUID) error
	Remove(ctx context.Context, userID, dishID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error)
	ListDishes(ctx context.Context, userID uuid.UUID) ([]models.Dish, error)
	Contains(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
}

type service struct {
	repo   favoritesRepo
	dishes dishLoader
}

// NewService builds a favorites service with the required dependencies.
func NewService(repo favoritesRepo, dishes dishLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "favorites repo is required")
	}
	if dishes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dish loader is required")
	}
	return &service{repo: repo, dishes: dishes}, nil
}

func (s *service) Add(ctx context.Context, userID, dishID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if dishID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "dish id is required")
	}
	if _, err := s.dishes.FindByID(ctx, dishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	if err := s.repo.Add(ctx, userID, dishID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, dishID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.Remove(ctx, userID, dishID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	out := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toFavoriteDTO(row))
	}
	return out, nil
}

func (s *service) ListDishes(ctx context.Context, userID uuid.UUID) ([]models.Dish, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	dishes, err := s.repo.ListDishes(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite dishes")
	}
	return dishes, nil
}

func (s *service) Contains(ctx context.Context, userID, dishID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	found, err := s.repo.Contains(ctx, userID, dishID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return found, nil
}
