package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Material is a raw material bought by a user. CostPerRecipeUnit is derived
// from the purchase fields whenever they are written.
type Material struct {
	ID                string  `gorm:"type:varchar(36);primaryKey"`
	Name              string  `gorm:"not null;index"`
	PurchasePrice     float64 `gorm:"not null"`
	PurchaseQty       float64 `gorm:"not null"`
	PurchaseUnit      string  `gorm:"type:varchar(8);not null"`
	RecipeUnit        string  `gorm:"type:varchar(8);not null"`
	CostPerRecipeUnit float64 `gorm:"not null"`
	OwnerID           uint    `gorm:"not null;index"`
	OwnerName         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BeforeCreate assigns an opaque identifier.
func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
