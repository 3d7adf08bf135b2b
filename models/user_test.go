package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		user User
		want string
	}{
		{"name wins", User{Name: "Ana", Email: "ana@example.com"}, "Ana"},
		{"blank name falls back", User{Name: "  ", Email: "ana@example.com"}, "ana@example.com"},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.user.DisplayName(); got != tt.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBeforeCreateAssignsOpaqueIDs(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:models-ids?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&Material{}, &Recipe{}, &RecipeIngredient{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	material := Material{Name: "Sugar", PurchasePrice: 5, PurchaseQty: 1, PurchaseUnit: "kg", RecipeUnit: "g", CostPerRecipeUnit: 0.005, OwnerID: 1}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("create material: %v", err)
	}
	if len(material.ID) != 36 {
		t.Fatalf("expected uuid material id, got %q", material.ID)
	}

	recipe := Recipe{Name: "Syrup", Instructions: "Boil", OwnerID: 1, Ingredients: []RecipeIngredient{
		{Position: 0, MaterialID: material.ID, MaterialName: material.Name, Quantity: 100, Unit: "g", Cost: 0.5},
	}}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if len(recipe.ID) != 36 || recipe.ID == material.ID {
		t.Fatalf("expected distinct uuid recipe id, got %q", recipe.ID)
	}
	if recipe.Ingredients[0].RecipeID != recipe.ID {
		t.Fatalf("expected ingredient to reference recipe, got %q", recipe.Ingredients[0].RecipeID)
	}
}
