package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite entry and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, dishID uuid.UUID) error {
	if userID == uuid.Nil || dishID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorites (id, user_id, dish_id) VALUES (?, ?, ?) ON CONFLICT (user_id, dish_id) DO NOTHING`,
			uuid.New(), userID, dishID).
		Error
}

// Remove deletes the user-dish favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID, dishID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND dish_id = ?", userID, dishID).
		Delete(&models.Favorite{}).
		Error
}

// List returns the raw favorite rows for a user, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var rows []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDishes returns the favorited dishes joined with the catalog.
func (r *Repository) ListDishes(ctx context.Context, userID uuid.UUID) ([]models.Dish, error) {
	var dishes []models.Dish
	if err := r.db.WithContext(ctx).
		Table("dishes").
		Joins("JOIN favorites f ON f.dish_id = dishes.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC, f.id DESC").
		Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// Contains reports whether the user has favorited the dish.
func (r *Repository) Contains(ctx context.Context, userID, dishID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND dish_id = ?", userID, dishID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
