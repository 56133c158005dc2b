package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

// Repository encapsulates delivery location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a locations repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUniversities returns all universities ordered by name. Ordering
// goes through lower(name) so mixed-case names sort the way the client
// displays them instead of by byte value.
func (r *Repository) ListUniversities(ctx context.Context) ([]models.University, error) {
	var rows []models.University
	if err := r.db.WithContext(ctx).Order("lower(name) ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindUniversityByID loads a single university.
func (r *Repository) FindUniversityByID(ctx context.Context, id uuid.UUID) (*models.University, error) {
	var row models.University
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListRooms returns rooms, optionally scoped to one university.
func (r *Repository) ListRooms(ctx context.Context, universityID *uuid.UUID) ([]models.Room, error) {
	query := r.db.WithContext(ctx).Model(&models.Room{})
	if universityID != nil {
		query = query.Where("university_id = ?", *universityID)
	}
	var rows []models.Room
	if err := query.Order("lower(name) ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
