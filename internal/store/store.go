package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recipecost/internal/costing"
	"recipecost/models"
)

// Store persists materials and recipes. It never computes costs; callers
// hand it values produced by the costing package.
type Store struct {
	db *gorm.DB
}

// New wraps a database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return s.db.WithContext(ctx), nil
}

func (sc Scope) apply(query *gorm.DB) *gorm.DB {
	if sc.All {
		return query
	}
	return query.Where("owner_id = ?", sc.OwnerID)
}

// writeScope limits updates to the actor's own records unless the actor is an admin.
func writeScope(actor Identity) (Scope, error) {
	if !actor.Authenticated() {
		return Scope{}, ErrUnauthenticated
	}
	if actor.Admin {
		return Scope{All: true}, nil
	}
	return Scope{OwnerID: actor.UserID}, nil
}

// AddMaterial stores a new material for owner with its derived cost.
func (s *Store) AddMaterial(ctx context.Context, owner Owner, in costing.MaterialPurchaseInput, costPerRecipeUnit float64) (*models.Material, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	material := &models.Material{
		Name:              in.Name,
		PurchasePrice:     in.Price,
		PurchaseQty:       in.Quantity,
		PurchaseUnit:      in.PurchaseUnit.String(),
		RecipeUnit:        in.RecipeUnit.String(),
		CostPerRecipeUnit: costPerRecipeUnit,
		OwnerID:           owner.ID,
		OwnerName:         owner.Name,
	}
	if err := db.Create(material).Error; err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return material, nil
}

// UpdateMaterial replaces the purchase fields of a material. Recipes that
// already reference it keep their snapshots.
func (s *Store) UpdateMaterial(ctx context.Context, actor Identity, id string, in costing.MaterialPurchaseInput, costPerRecipeUnit float64) (*models.Material, error) {
	scope, err := writeScope(actor)
	if err != nil {
		return nil, err
	}
	material, err := s.GetMaterial(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"name":                 in.Name,
		"purchase_price":       in.Price,
		"purchase_qty":         in.Quantity,
		"purchase_unit":        in.PurchaseUnit.String(),
		"recipe_unit":          in.RecipeUnit.String(),
		"cost_per_recipe_unit": costPerRecipeUnit,
	}
	if err := db.Model(material).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update material %s: %w", id, err)
	}
	return s.GetMaterial(ctx, scope, id)
}

// GetMaterial loads one material visible in scope. Missing or foreign
// records yield gorm.ErrRecordNotFound.
func (s *Store) GetMaterial(ctx context.Context, scope Scope, id string) (*models.Material, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var material models.Material
	if err := scope.apply(db.Where("id = ?", id)).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// ListMaterials returns the materials visible in scope ordered by name.
func (s *Store) ListMaterials(ctx context.Context, scope Scope) ([]models.Material, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var materials []models.Material
	if err := scope.apply(db.Order("name asc").Order("id asc")).Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}

// Catalog indexes the materials visible in scope for recipe composition.
func (s *Store) Catalog(ctx context.Context, scope Scope) (costing.CatalogMap, error) {
	materials, err := s.ListMaterials(ctx, scope)
	if err != nil {
		return nil, err
	}
	refs := make([]costing.MaterialRef, 0, len(materials))
	for _, material := range materials {
		refs = append(refs, MaterialRef(material))
	}
	return costing.NewCatalog(refs...), nil
}

// AddRecipe stores a composed recipe and its ingredient snapshots.
func (s *Store) AddRecipe(ctx context.Context, owner Owner, composition costing.RecipeComposition) (*models.Recipe, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:               composition.Name,
		Instructions:       composition.Instructions,
		Ingredients:        snapshotRows(composition.Ingredients),
		TotalCost:          composition.Totals.TotalCost,
		MarginPercent:      composition.Totals.MarginPercent,
		SuggestedSalePrice: composition.Totals.SuggestedSalePrice,
		OwnerID:            owner.ID,
		OwnerName:          owner.Name,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

// UpdateRecipe replaces name, instructions, ingredients and totals of a recipe.
func (s *Store) UpdateRecipe(ctx context.Context, actor Identity, id string, composition costing.RecipeComposition) (*models.Recipe, error) {
	scope, err := writeScope(actor)
	if err != nil {
		return nil, err
	}
	recipe, err := s.GetRecipe(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"name":                 composition.Name,
			"instructions":         composition.Instructions,
			"total_cost":           composition.Totals.TotalCost,
			"margin_percent":       composition.Totals.MarginPercent,
			"suggested_sale_price": composition.Totals.SuggestedSalePrice,
		}
		if err := tx.Model(&models.Recipe{ID: recipe.ID}).Updates(updates).Error; err != nil {
			return err
		}
		rows := snapshotRows(composition.Ingredients)
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update recipe %s: %w", id, err)
	}
	return s.GetRecipe(ctx, scope, id)
}

// GetRecipe loads one recipe visible in scope with its ingredients in order.
func (s *Store) GetRecipe(ctx context.Context, scope Scope, id string) (*models.Recipe, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	query := db.Preload("Ingredients", orderedIngredients).Where("id = ?", id)
	if err := scope.apply(query).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns the recipes visible in scope, newest first.
func (s *Store) ListRecipes(ctx context.Context, scope Scope) ([]models.Recipe, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var recipes []models.Recipe
	query := db.Preload("Ingredients", orderedIngredients).Order("created_at desc").Order("id asc")
	if err := scope.apply(query).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}
