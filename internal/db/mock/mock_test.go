package mock

import (
	"context"
	"math"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"recipecost/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var materials []models.Material
	if err := db.WithContext(ctx).Find(&materials).Error; err != nil {
		t.Fatalf("query materials: %v", err)
	}
	if len(materials) != len(demoMaterials) {
		t.Fatalf("expected %d seeded materials, got %d", len(demoMaterials), len(materials))
	}

	var recipe models.Recipe
	if err := db.WithContext(ctx).Preload("Ingredients").First(&recipe).Error; err != nil {
		t.Fatalf("query recipe: %v", err)
	}
	if len(recipe.Ingredients) != 5 {
		t.Fatalf("expected 5 ingredients, got %d", len(recipe.Ingredients))
	}
	// 1.65 + 0.84 + 1.152 + 3 + 4.95
	if math.Abs(recipe.TotalCost-11.592) > 1e-9 {
		t.Fatalf("unexpected total cost %v", recipe.TotalCost)
	}
	if math.Abs(recipe.SuggestedSalePrice-23.184) > 1e-9 {
		t.Fatalf("unexpected suggested price %v", recipe.SuggestedSalePrice)
	}

	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", DemoEmail).First(&user).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}

	if _, err := New(ctx); err != nil {
		t.Fatalf("second initialization should reuse the seeded database: %v", err)
	}
	var count int64
	db.WithContext(ctx).Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected seeding to run once, found %d users", count)
	}
}
