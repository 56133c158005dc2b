package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user to a bookmarked dish. The (user_id, dish_id) pair is
// unique so repeated adds collapse into a single row.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_favorites_user_dish"`
	DishID    uuid.UUID `gorm:"column:dish_id;type:uuid;not null;uniqueIndex:idx_favorites_user_dish"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
