package costing

import (
	"fmt"
	"strings"
)

// MaterialRef is the read-only view of a stored material needed to compose recipes.
type MaterialRef struct {
	ID                string
	Name              string
	RecipeUnit        Unit
	CostPerRecipeUnit float64
}

// MaterialCatalog looks materials up by id. Implementations are owned by the
// caller; the engine only reads from them during a single call.
type MaterialCatalog interface {
	Material(id string) (MaterialRef, bool)
}

// CatalogMap is the plain map implementation of MaterialCatalog.
type CatalogMap map[string]MaterialRef

// NewCatalog indexes refs by id.
func NewCatalog(refs ...MaterialRef) CatalogMap {
	catalog := make(CatalogMap, len(refs))
	for _, ref := range refs {
		catalog[ref.ID] = ref
	}
	return catalog
}

// Material implements MaterialCatalog.
func (c CatalogMap) Material(id string) (MaterialRef, bool) {
	ref, ok := c[id]
	return ref, ok
}

// IngredientRow is one line of a recipe form as typed by the user.
type IngredientRow struct {
	MaterialID string
	Quantity   string
}

// RecipeDraft is a full recipe submission before costing.
type RecipeDraft struct {
	Name          string
	Instructions  string
	Rows          []IngredientRow
	MarginPercent float64
}

// RecipeComposition is a validated recipe with its snapshots and totals.
type RecipeComposition struct {
	Name         string
	Instructions string
	Ingredients  []RecipeIngredient
	Totals       RecipeTotals
}

// BuildIngredients snapshots each filled-in row against catalog. Rows with no
// material or with a blank or non-positive quantity are skipped.
func BuildIngredients(rows []IngredientRow, catalog MaterialCatalog) ([]RecipeIngredient, error) {
	ingredients := make([]RecipeIngredient, 0, len(rows))
	for idx, row := range rows {
		materialID := strings.TrimSpace(row.MaterialID)
		rawQty := strings.TrimSpace(row.Quantity)
		if materialID == "" || rawQty == "" {
			continue
		}

		qty, err := ParseNumber(rawQty)
		if err != nil || !finite(qty) {
			return nil, fmt.Errorf("%w: ingredient %d quantity %q is not a number", ErrInvalidInput, idx+1, row.Quantity)
		}

		var material MaterialRef
		var found bool
		if catalog != nil {
			material, found = catalog.Material(materialID)
		}
		if !found {
			return nil, fmt.Errorf("%w: ingredient %d references unknown material %q", ErrInvalidInput, idx+1, materialID)
		}

		cost, ok := IngredientCost(material.CostPerRecipeUnit, qty)
		if !ok {
			continue
		}
		if !finite(cost) {
			return nil, fmt.Errorf("%w: ingredient %d quantity %q is too large", ErrInvalidInput, idx+1, row.Quantity)
		}

		ingredients = append(ingredients, RecipeIngredient{
			MaterialID:   material.ID,
			MaterialName: material.Name,
			Quantity:     qty,
			Unit:         material.RecipeUnit,
			Cost:         cost,
		})
	}
	return ingredients, nil
}

// ValidateRecipe is the single rejection point before a recipe is persisted.
func ValidateRecipe(name, instructions string, ingredients []RecipeIngredient) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: recipe name is required", ErrValidation)
	case strings.TrimSpace(instructions) == "":
		return fmt.Errorf("%w: recipe instructions are required", ErrValidation)
	case len(ingredients) == 0:
		return fmt.Errorf("%w: a recipe needs at least one ingredient", ErrValidation)
	}
	return nil
}

// ComposeRecipe builds, validates and prices a draft. Totals are always
// recomputed from the current rows and margin.
func ComposeRecipe(draft RecipeDraft, catalog MaterialCatalog) (RecipeComposition, error) {
	ingredients, err := BuildIngredients(draft.Rows, catalog)
	if err != nil {
		return RecipeComposition{}, err
	}

	name := strings.TrimSpace(draft.Name)
	instructions := strings.TrimSpace(draft.Instructions)
	if err := ValidateRecipe(name, instructions, ingredients); err != nil {
		return RecipeComposition{}, err
	}

	totals, err := PriceRecipe(ingredients, draft.MarginPercent)
	if err != nil {
		return RecipeComposition{}, err
	}

	return RecipeComposition{
		Name:         name,
		Instructions: instructions,
		Ingredients:  ingredients,
		Totals:       totals,
	}, nil
}
