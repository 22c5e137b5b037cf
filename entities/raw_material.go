package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RawMaterial struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FoodItem    string    `gorm:"uniqueIndex" json:"food_item"`
	Ingredients []string  `gorm:"serializer:json;type:text" json:"ingredients"`
	Source      string    `json:"source"` // "manual", "ai", "seed"

	Timestamp
}

func (r *RawMaterial) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
