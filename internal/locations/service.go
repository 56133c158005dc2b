package locations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

type locationsRepo interface {
	ListUniversities(ctx context.Context) ([]models.University, error)
	FindUniversityByID(ctx context.Context, id uuid.UUID) (*models.University, error)
	ListRooms(ctx context.Context, universityID *uuid.UUID) ([]models.Room, error)
}

// Service exposes the delivery location catalog.
type Service interface {
	ListUniversities(ctx context.Context) ([]models.University, error)
	ListRooms(ctx context.Context, universityID *uuid.UUID) ([]models.Room, error)
}

type service struct {
	repo locationsRepo
}

// NewService builds a locations service.
func NewService(repo locationsRepo) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "locations repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListUniversities(ctx context.Context) ([]models.University, error) {
	rows, err := s.repo.ListUniversities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list universities")
	}
	return rows, nil
}

// ListRooms returns rooms, checking the university exists when one is given.
func (s *service) ListRooms(ctx context.Context, universityID *uuid.UUID) ([]models.Room, error) {
	if universityID != nil {
		if *universityID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "university id is required")
		}
		if _, err := s.repo.FindUniversityByID(ctx, *universityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "university not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load university")
		}
	}
	rows, err := s.repo.ListRooms(ctx, universityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rooms")
	}
	return rows, nil
}
