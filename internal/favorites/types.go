package favorites

import (
	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

// FavoriteDTO is the wire shape of a favorite entry.
type FavoriteDTO struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	DishID uuid.UUID `json:"dishId"`
}

func toFavoriteDTO(row models.Favorite) FavoriteDTO {
	return FavoriteDTO{
		ID:     row.ID,
		UserID: row.UserID,
		DishID: row.DishID,
	}
}
