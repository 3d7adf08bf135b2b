package mock

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipecost/internal/costing"
	"recipecost/internal/db"
	applog "recipecost/internal/log"
	"recipecost/internal/store"
	"recipecost/models"
)

const (
	// DemoEmail and DemoPassword sign in to the seeded account.
	DemoEmail    = "demo@recipecost.app"
	DemoPassword = "padaria123"
)

var demoMaterials = []costing.MaterialPurchaseForm{
	{Name: "Farinha de trigo", Price: "5,50", Quantity: "1", PurchaseUnit: "kg", RecipeUnit: "g"},
	{Name: "Açúcar", Price: "4.20", Quantity: "1", PurchaseUnit: "kg", RecipeUnit: "g"},
	{Name: "Leite", Price: "4.80", Quantity: "1", PurchaseUnit: "L", RecipeUnit: "ml"},
	{Name: "Ovos", Price: "12", Quantity: "12", PurchaseUnit: "un", RecipeUnit: "un"},
	{Name: "Manteiga", Price: "9.90", Quantity: "200", PurchaseUnit: "g", RecipeUnit: "g"},
}

// New returns an in-memory sqlite database seeded with a demo kitchen.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:recipecost-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	var users int64
	if err := database.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return nil, err
	}
	if users == 0 {
		if err := seed(ctx, database); err != nil {
			return nil, err
		}
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Padaria Demo",
		Email:        DemoEmail,
		PasswordHash: string(password),
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	owner := store.Owner{ID: user.ID, Name: user.DisplayName()}
	st := store.New(database)

	ids := make(map[string]string, len(demoMaterials))
	for _, form := range demoMaterials {
		in, cost, err := costing.ParseMaterialCost(form)
		if err != nil {
			return fmt.Errorf("seed material %s: %w", form.Name, err)
		}
		material, err := st.AddMaterial(ctx, owner, in, cost)
		if err != nil {
			return err
		}
		ids[material.Name] = material.ID
	}

	catalog, err := st.Catalog(ctx, store.Scope{OwnerID: owner.ID})
	if err != nil {
		return err
	}
	composition, err := costing.ComposeRecipe(costing.RecipeDraft{
		Name:         "Bolo simples",
		Instructions: "Bata os ovos com o açúcar, junte a manteiga e o leite, incorpore a farinha e asse a 180°C por 40 minutos.",
		Rows: []costing.IngredientRow{
			{MaterialID: ids["Farinha de trigo"], Quantity: "300"},
			{MaterialID: ids["Açúcar"], Quantity: "200"},
			{MaterialID: ids["Leite"], Quantity: "240"},
			{MaterialID: ids["Ovos"], Quantity: "3"},
			{MaterialID: ids["Manteiga"], Quantity: "100"},
		},
		MarginPercent: costing.DefaultMarginPercent,
	}, catalog)
	if err != nil {
		return fmt.Errorf("seed recipe: %w", err)
	}
	if _, err := st.AddRecipe(ctx, owner, composition); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
