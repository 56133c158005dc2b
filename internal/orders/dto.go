package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
)

// OrderDishDTO is the wire shape of one ordered dish. Field names match what
// the mobile client already sends and reads.
type OrderDishDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
}

// OrderDTO is the wire shape of an order.
type OrderDTO struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	Dishes           []OrderDishDTO  `json:"dishes"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           string          `json:"status"`
	DeliveryLocation string          `json:"deliveryLocation"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func toOrderDTO(order *models.Order) OrderDTO {
	dishes := make([]OrderDishDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		dishes = append(dishes, OrderDishDTO{
			ID:          line.DishID,
			Name:        line.DishName,
			Description: line.Description,
			Price:       line.UnitPrice,
			Image:       line.ImageURL,
			Quantity:    line.Quantity,
		})
	}
	return OrderDTO{
		ID:               order.ID,
		UserID:           order.UserID,
		Dishes:           dishes,
		TotalAmount:      order.TotalAmount,
		Status:           order.Status.String(),
		DeliveryLocation: order.DeliveryLocation,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}
