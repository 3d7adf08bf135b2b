package models

// RecipeIngredient is a copy of a material's name, unit and cost taken when
// the recipe was saved. MaterialID is informational; nothing joins on it.
type RecipeIngredient struct {
	ID           uint    `gorm:"primaryKey"`
	RecipeID     string  `gorm:"type:varchar(36);not null;index"`
	Position     int     `gorm:"not null"`
	MaterialID   string  `gorm:"type:varchar(36);not null"`
	MaterialName string  `gorm:"not null"`
	Quantity     float64 `gorm:"not null"`
	Unit         string  `gorm:"type:varchar(8);not null"`
	Cost         float64 `gorm:"not null"`
}
