package costing

import (
	"fmt"
	"math"
)

// RecipeIngredient is the frozen snapshot of a material embedded in a recipe.
// It does not follow later edits of the material it was copied from.
type RecipeIngredient struct {
	MaterialID   string
	MaterialName string
	Quantity     float64
	Unit         Unit
	Cost         float64
}

// RecipeTotals carries the derived money fields of a recipe.
type RecipeTotals struct {
	TotalCost          float64
	MarginPercent      float64
	SuggestedSalePrice float64
}

// IngredientCost multiplies a recipe quantity by the material's cost per
// recipe unit. The second result is false for rows that are not filled in
// yet (zero, negative or NaN quantity); those rows are skipped, not rejected.
func IngredientCost(costPerRecipeUnit, quantity float64) (float64, bool) {
	if math.IsNaN(quantity) || quantity <= 0 {
		return 0, false
	}
	return quantity * costPerRecipeUnit, true
}

// AggregateRecipe sums ingredient costs and applies the profit margin.
// The suggested price is zero whenever the total is not positive or the
// margin is negative, so the result is never a negative price. Values are
// not rounded here.
func AggregateRecipe(ingredients []RecipeIngredient, marginPercent float64) RecipeTotals {
	total := 0.0
	for _, ingredient := range ingredients {
		total += ingredient.Cost
	}

	totals := RecipeTotals{
		TotalCost:     total,
		MarginPercent: marginPercent,
	}
	if total > 0 && marginPercent >= 0 {
		totals.SuggestedSalePrice = total * (1 + marginPercent/100)
	}
	return totals
}

// PriceRecipe is AggregateRecipe for values headed to storage or the wire:
// totals that overflow to infinity are rejected.
func PriceRecipe(ingredients []RecipeIngredient, marginPercent float64) (RecipeTotals, error) {
	if !finite(marginPercent) {
		return RecipeTotals{}, fmt.Errorf("%w: margin must be a number", ErrInvalidInput)
	}
	totals := AggregateRecipe(ingredients, marginPercent)
	if !finite(totals.TotalCost) || !finite(totals.SuggestedSalePrice) {
		return RecipeTotals{}, fmt.Errorf("%w: recipe totals are too large", ErrInvalidInput)
	}
	return totals, nil
}
