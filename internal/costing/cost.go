package costing

import (
	"fmt"
	"math"
)

// CostPerRecipeUnit derives the price of one recipe unit of a material bought
// as purchaseQty units of purchaseUnit for purchasePrice.
//
// A count recipe unit can only be derived from a count purchase: there is no
// yield information to turn grams or litres into pieces.
func CostPerRecipeUnit(purchasePrice, purchaseQty float64, purchaseUnit, recipeUnit Unit) (float64, error) {
	if !finite(purchasePrice) || !finite(purchaseQty) {
		return 0, fmt.Errorf("%w: price and quantity must be numbers", ErrInvalidInput)
	}
	if purchasePrice <= 0 {
		return 0, fmt.Errorf("%w: purchase price must be greater than zero", ErrInvalidInput)
	}
	if purchaseQty <= 0 {
		return 0, fmt.Errorf("%w: purchase quantity must be greater than zero", ErrInvalidInput)
	}

	if recipeUnit == Count {
		if purchaseUnit != Count {
			return 0, fmt.Errorf("%w: %q purchases cannot be consumed per %q", ErrIncompatibleUnits, purchaseUnit, recipeUnit)
		}
		return checkedCost(purchasePrice / purchaseQty)
	}

	factor, ok := Multiplier(purchaseUnit, recipeUnit)
	if !ok {
		return 0, fmt.Errorf("%w: cannot convert %q to %q", ErrIncompatibleUnits, purchaseUnit, recipeUnit)
	}

	total := purchaseQty * factor
	if !finite(total) || total <= 0 {
		return 0, fmt.Errorf("%w: purchase quantity is too small to convert", ErrInvalidInput)
	}

	return checkedCost(purchasePrice / total)
}

// CostFor runs CostPerRecipeUnit over a validated purchase input.
func CostFor(in MaterialPurchaseInput) (float64, error) {
	return CostPerRecipeUnit(in.Price, in.Quantity, in.PurchaseUnit, in.RecipeUnit)
}

func checkedCost(value float64) (float64, error) {
	if !finite(value) || value <= 0 {
		return 0, fmt.Errorf("%w: cost per unit is not representable", ErrInvalidInput)
	}
	return value, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
