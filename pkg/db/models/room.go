package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a delivery point inside a university building.
type Room struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UniversityID uuid.UUID `gorm:"column:university_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Building     *string   `gorm:"column:building"`
	Floor        *int      `gorm:"column:floor"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
