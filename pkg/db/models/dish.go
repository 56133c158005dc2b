package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dish represents a menu entry served on campus.
type Dish struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Allergens   []string        `gorm:"column:allergens;type:jsonb;serializer:json"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	// No gorm default tag: gorm drops zero-value fields that carry one,
	// which would turn an explicit false into the column default.
	IsAvailable bool `gorm:"column:is_available;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
