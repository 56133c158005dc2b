package dishes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
)

// Repository defines persistence operations for the dish catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dish *models.Dish) (*models.Dish, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	List(ctx context.Context, params listDishesParams) ([]models.Dish, *pagination.Cursor, error)
}

type listDishesParams struct {
	Limit         int
	Cursor        *pagination.Cursor
	AvailableOnly bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dish *models.Dish) (*models.Dish, error) {
	if err := r.db.WithContext(ctx).Create(dish).Error; err != nil {
		return nil, err
	}
	return dish, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).First(&dish, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *repository) List(ctx context.Context, params listDishesParams) ([]models.Dish, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Dish{})
	if params.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var dishes []models.Dish
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&dishes).Error; err != nil {
		return nil, nil, err
	}

	if len(dishes) > normalized {
		dishes = dishes[:normalized]
		// The cursor pins the last row handed out; the next query filters
		// strictly below it.
		last := dishes[normalized-1]
		return dishes, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return dishes, nil, nil
}
