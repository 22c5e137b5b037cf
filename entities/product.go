package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"index" json:"name"`
	Category string    `json:"category,omitempty"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
	ImageURL string    `json:"image_url,omitempty"`

	Timestamp
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
