package costing

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMarginPercent is applied when a recipe form leaves the margin blank.
const DefaultMarginPercent = 100.0

// MaterialPurchaseForm holds the raw strings of a material registration form.
type MaterialPurchaseForm struct {
	Name         string
	Price        string
	Quantity     string
	PurchaseUnit string
	RecipeUnit   string
}

// MaterialPurchaseInput is the validated, typed purchase description of a material.
type MaterialPurchaseInput struct {
	Name         string
	Price        float64
	Quantity     float64
	PurchaseUnit Unit
	RecipeUnit   Unit
}

// ParseMaterialPurchase validates a registration form at the boundary so the
// engine only ever sees typed values.
func ParseMaterialPurchase(form MaterialPurchaseForm) (MaterialPurchaseInput, error) {
	in, _, err := ParseMaterialCost(form)
	return in, err
}

// ParseMaterialCost is ParseMaterialPurchase that also returns the derived
// cost per recipe unit.
func ParseMaterialCost(form MaterialPurchaseForm) (MaterialPurchaseInput, float64, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return MaterialPurchaseInput{}, 0, fmt.Errorf("%w: material name is required", ErrValidation)
	}

	price, err := ParseNumber(form.Price)
	if err != nil {
		return MaterialPurchaseInput{}, 0, fmt.Errorf("%w: purchase price %q is not a number", ErrInvalidInput, form.Price)
	}
	qty, err := ParseNumber(form.Quantity)
	if err != nil {
		return MaterialPurchaseInput{}, 0, fmt.Errorf("%w: purchase quantity %q is not a number", ErrInvalidInput, form.Quantity)
	}

	purchaseUnit, err := ParseUnit(form.PurchaseUnit)
	if err != nil {
		return MaterialPurchaseInput{}, 0, err
	}
	recipeUnit, err := ParseUnit(form.RecipeUnit)
	if err != nil {
		return MaterialPurchaseInput{}, 0, err
	}

	in := MaterialPurchaseInput{
		Name:         name,
		Price:        price,
		Quantity:     qty,
		PurchaseUnit: purchaseUnit,
		RecipeUnit:   recipeUnit,
	}
	cost, err := in.Cost()
	if err != nil {
		return MaterialPurchaseInput{}, 0, err
	}
	return in, cost, nil
}

// Validate checks the typed input.
func (in MaterialPurchaseInput) Validate() error {
	_, err := in.Cost()
	return err
}

// Cost validates the typed input and derives its cost per recipe unit.
func (in MaterialPurchaseInput) Cost() (float64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, fmt.Errorf("%w: material name is required", ErrValidation)
	}
	if !in.PurchaseUnit.Valid() {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrIncompatibleUnits, in.PurchaseUnit)
	}
	if !in.RecipeUnit.Valid() {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrIncompatibleUnits, in.RecipeUnit)
	}
	return CostFor(in)
}

// ParseMargin reads a margin percentage. Blank means DefaultMarginPercent.
// Negative values are accepted and later price to zero.
func ParseMargin(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return DefaultMarginPercent, nil
	}
	margin, err := ParseNumber(value)
	if err != nil || !finite(margin) {
		return 0, fmt.Errorf("%w: margin %q is not a number", ErrInvalidInput, value)
	}
	return margin, nil
}

// ParseNumber parses a decimal typed into a form. A single comma is accepted
// as the decimal separator ("2,5").
func ParseNumber(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}
	if strings.Count(trimmed, ",") == 1 && !strings.Contains(trimmed, ".") {
		trimmed = strings.Replace(trimmed, ",", ".", 1)
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, value)
	}
	return parsed, nil
}
