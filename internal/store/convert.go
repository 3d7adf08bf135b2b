package store

import (
	"recipecost/internal/costing"
	"recipecost/models"
)

// MaterialRef projects a stored material into the catalog view used by the costing package.
func MaterialRef(material models.Material) costing.MaterialRef {
	return costing.MaterialRef{
		ID:                material.ID,
		Name:              material.Name,
		RecipeUnit:        costing.Unit(material.RecipeUnit),
		CostPerRecipeUnit: material.CostPerRecipeUnit,
	}
}

// Ingredients converts stored snapshots back into costing values.
func Ingredients(recipe models.Recipe) []costing.RecipeIngredient {
	out := make([]costing.RecipeIngredient, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		out = append(out, costing.RecipeIngredient{
			MaterialID:   row.MaterialID,
			MaterialName: row.MaterialName,
			Quantity:     row.Quantity,
			Unit:         costing.Unit(row.Unit),
			Cost:         row.Cost,
		})
	}
	return out
}

func snapshotRows(ingredients []costing.RecipeIngredient) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	for idx, ingredient := range ingredients {
		rows = append(rows, models.RecipeIngredient{
			Position:     idx,
			MaterialID:   ingredient.MaterialID,
			MaterialName: ingredient.MaterialName,
			Quantity:     ingredient.Quantity,
			Unit:         ingredient.Unit.String(),
			Cost:         ingredient.Cost,
		})
	}
	return rows
}
