package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a priced list of ingredient snapshots. The totals are derived
// when the recipe is saved and are not recomputed on read.
type Recipe struct {
	ID                 string             `gorm:"type:varchar(36);primaryKey"`
	Name               string             `gorm:"not null"`
	Instructions       string             `gorm:"type:text;not null"`
	Ingredients        []RecipeIngredient `gorm:"foreignKey:RecipeID"`
	TotalCost          float64            `gorm:"not null"`
	MarginPercent      float64            `gorm:"not null"`
	SuggestedSalePrice float64            `gorm:"not null"`
	OwnerID            uint               `gorm:"not null;index"`
	OwnerName          string
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

// BeforeCreate assigns an opaque identifier.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
