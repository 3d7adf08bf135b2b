package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gorm.io/gorm"

	"recipecost/internal/costing"
	"recipecost/models"
)

func seedMaterial(t *testing.T, database *gorm.DB, owner *models.User, name string, costPerUnit float64, unit string) models.Material {
	t.Helper()
	material := models.Material{
		Name:              name,
		PurchasePrice:     costPerUnit,
		PurchaseQty:       1,
		PurchaseUnit:      unit,
		RecipeUnit:        unit,
		CostPerRecipeUnit: costPerUnit,
		OwnerID:           owner.ID,
		OwnerName:         owner.DisplayName(),
	}
	if err := database.Create(&material).Error; err != nil {
		t.Fatalf("seed material %s: %v", name, err)
	}
	return material
}

func TestCreateRecipeAPIDerivesTotals(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 0.005, "g")
	egg := seedMaterial(t, database, cook, "Egg", 1, "un")

	body := `{"name":"Cake","instructions":"Mix and bake.","total_cost":1000,
		"ingredients":[{"material_id":"` + flour.ID + `","quantity":200},{"material_id":"` + egg.ID + `","quantity":"3"},{"material_id":"","quantity":5},{"material_id":"` + egg.ID + `","quantity":0}]}`
	w := httptest.NewRecorder()
	CreateRecipeAPI(w, jsonRequest(http.MethodPost, "/app/api/recipes", body).WithContext(ctx))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp recipeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Ingredients) != 2 {
		t.Fatalf("expected blank and zero rows to be dropped, got %+v", resp.Ingredients)
	}
	if math.Abs(resp.TotalCost-4) > 1e-9 || math.Abs(resp.SuggestedSalePrice-8) > 1e-9 || resp.MarginPercent != 100 {
		t.Fatalf("unexpected totals %+v", resp)
	}

	w = httptest.NewRecorder()
	GetRecipeAPI(w, withURLParam(httptest.NewRequest(http.MethodGet, "/app/api/recipes/"+resp.ID, nil).WithContext(ctx), "id", resp.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateRecipeAPIErrors(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	other := seedUser(t, database, "other@example.com", "Other")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 0.005, "g")
	foreign := seedMaterial(t, database, other, "Saffron", 20, "g")
	vanilla := seedMaterial(t, database, cook, "Vanilla", 20, "g")

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"no ingredients", `{"name":"Cake","instructions":"Bake.","ingredients":[]}`, http.StatusUnprocessableEntity},
		{"missing instructions", `{"name":"Cake","instructions":"","ingredients":[{"material_id":"` + flour.ID + `","quantity":1}]}`, http.StatusUnprocessableEntity},
		{"unknown material", `{"name":"Cake","instructions":"Bake.","ingredients":[{"material_id":"nope","quantity":1}]}`, http.StatusBadRequest},
		{"foreign material", `{"name":"Cake","instructions":"Bake.","ingredients":[{"material_id":"` + foreign.ID + `","quantity":1}]}`, http.StatusBadRequest},
		{"overflowing quantity", `{"name":"Cake","instructions":"Bake.","ingredients":[{"material_id":"` + vanilla.ID + `","quantity":1e308}]}`, http.StatusBadRequest},
		{"overflowing margin", `{"name":"Cake","instructions":"Bake.","ingredients":[{"material_id":"` + flour.ID + `","quantity":1000000}],"margin_percent":1e308}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		CreateRecipeAPI(w, jsonRequest(http.MethodPost, "/app/api/recipes", tc.body).WithContext(ctx))
		if w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.status, w.Code, w.Body.String())
		}
	}

	var count int64
	database.Model(&models.Recipe{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rejected recipes not to be stored, got %d", count)
	}
}

func TestUpdateRecipeAPIKeepsSnapshotsOfOtherRecipes(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 0.005, "g")

	w := httptest.NewRecorder()
	CreateRecipeAPI(w, jsonRequest(http.MethodPost, "/app/api/recipes", `{"name":"Bread","instructions":"Bake.","margin_percent":-10,"ingredients":[{"material_id":"`+flour.ID+`","quantity":200}]}`).WithContext(ctx))
	var created recipeResponse
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.MarginPercent != -10 || created.SuggestedSalePrice != 0 {
		t.Fatalf("expected negative margin to price at zero, got %+v", created)
	}

	w = httptest.NewRecorder()
	UpdateMaterialAPI(w, withURLParam(jsonRequest(http.MethodPut, "/", `{"name":"Flour","purchase_price":20,"purchase_quantity":1,"purchase_unit":"kg","recipe_unit":"g"}`).WithContext(ctx), "id", flour.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("material update failed: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	GetRecipeAPI(w, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), "id", created.ID))
	var stored recipeResponse
	json.Unmarshal(w.Body.Bytes(), &stored)
	if math.Abs(stored.TotalCost-1) > 1e-9 || math.Abs(stored.Ingredients[0].Cost-1) > 1e-9 {
		t.Fatalf("expected snapshot cost to stay at 1, got %+v", stored)
	}

	w = httptest.NewRecorder()
	UpdateRecipeAPI(w, withURLParam(jsonRequest(http.MethodPut, "/", `{"name":"Bread","instructions":"Bake longer.","margin_percent":50,"ingredients":[{"material_id":"`+flour.ID+`","quantity":200}]}`).WithContext(ctx), "id", created.ID))
	var updated recipeResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	if w.Code != http.StatusOK || math.Abs(updated.TotalCost-4) > 1e-9 || math.Abs(updated.SuggestedSalePrice-6) > 1e-9 {
		t.Fatalf("expected re-saved recipe to use the current cost, got %d %+v", w.Code, updated)
	}
}

func TestPreviewRecipe(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 0.005, "g")

	w := httptest.NewRecorder()
	PreviewRecipe(w, jsonRequest(http.MethodPost, "/app/api/recipes/preview", `{"ingredients":[{"material_id":"`+flour.ID+`","quantity":100}],"margin_percent":20}`).WithContext(ctx))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var preview previewResponse
	json.Unmarshal(w.Body.Bytes(), &preview)
	if math.Abs(preview.TotalCost-0.5) > 1e-9 || math.Abs(preview.SuggestedSalePrice-0.6) > 1e-9 {
		t.Fatalf("unexpected preview %+v", preview)
	}

	form := url.Values{
		"material_id":    {flour.ID, ""},
		"quantity":       {"200", ""},
		"margin_percent": {""},
	}
	req := formRequest("/app/api/recipes/preview", form).WithContext(ctx)
	req.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	PreviewRecipe(w, req)
	body := w.Body.String()
	if !strings.Contains(body, `<strong id="preview-total">R$ 1.00</strong>`) || !strings.Contains(body, `<strong id="preview-price">R$ 2.00</strong>`) {
		t.Fatalf("expected html preview with default margin: %s", body)
	}

	form.Set("margin_percent", "abc")
	req = formRequest("/app/api/recipes/preview", form).WithContext(ctx)
	req.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	PreviewRecipe(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "class=\"alert\"") {
		t.Fatalf("expected inline error for bad margin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPreviewRecipeZeroDefaultMarginPricesAtCost(t *testing.T) {
	original := defaultMargin
	t.Cleanup(func() { defaultMargin = original })
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	Configure(sessionManager, database, Settings{DefaultMarginPercent: 0})

	cook := seedUser(t, database, "cook@example.com", "Cook")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 0.005, "g")

	w := httptest.NewRecorder()
	PreviewRecipe(w, jsonRequest(http.MethodPost, "/app/api/recipes/preview", `{"ingredients":[{"material_id":"`+flour.ID+`","quantity":200}]}`).WithContext(ctx))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var preview previewResponse
	json.Unmarshal(w.Body.Bytes(), &preview)
	if preview.MarginPercent != 0 || math.Abs(preview.SuggestedSalePrice-1) > 1e-9 {
		t.Fatalf("expected price at cost, got %+v", preview)
	}

	form := url.Values{"material_id": {flour.ID}, "quantity": {"200"}, "margin_percent": {""}}
	req := formRequest("/app/api/recipes/preview", form).WithContext(ctx)
	req.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	PreviewRecipe(w, req)
	if !strings.Contains(w.Body.String(), `<strong id="preview-price">R$ 1.00</strong>`) {
		t.Fatalf("expected blank margin to price at cost: %s", w.Body.String())
	}
}

func TestPreviewRecipeRejectsOverflow(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 10, "g")

	w := httptest.NewRecorder()
	PreviewRecipe(w, jsonRequest(http.MethodPost, "/app/api/recipes/preview", `{"ingredients":[{"material_id":"`+flour.ID+`","quantity":1e308}]}`).WithContext(ctx))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "too large") {
		t.Fatalf("expected overflow message, got %s", w.Body.String())
	}
}

func TestRecipeFormFlow(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flour := seedMaterial(t, database, cook, "Flour", 0.005, "g")

	w := httptest.NewRecorder()
	NewRecipe(w, httptest.NewRequest(http.MethodGet, "/app/recipes/new", nil).WithContext(ctx))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Flour (g)") {
		t.Fatalf("expected recipe form listing materials, got %d", w.Code)
	}

	form := url.Values{
		"name":           {"Bread"},
		"instructions":   {""},
		"material_id":    {flour.ID},
		"quantity":       {"200"},
		"margin_percent": {"100"},
	}
	req := formRequest("/app/recipes", form).WithContext(ctx)
	w = httptest.NewRecorder()
	SaveRecipe(w, req)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "recipe instructions are required") {
		t.Fatalf("expected validation error, got %d: %s", w.Code, w.Body.String())
	}
	if state := loadEditor(req, editorRecipes); state.Mode != costing.ModeCreating {
		t.Fatalf("expected editor to stay open, got %+v", state)
	}

	form.Set("instructions", "Knead and bake.")
	req = formRequest("/app/recipes", form).WithContext(ctx)
	w = httptest.NewRecorder()
	SaveRecipe(w, req)
	if w.Code != http.StatusSeeOther || !strings.HasPrefix(w.Header().Get("Location"), "/app/recipes/") {
		t.Fatalf("expected redirect to recipe, got %d %q", w.Code, w.Header().Get("Location"))
	}
	id := strings.TrimPrefix(w.Header().Get("Location"), "/app/recipes/")

	w = httptest.NewRecorder()
	ShowRecipe(w, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), "id", id))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "R$ 2.00") {
		t.Fatalf("expected recipe detail with price, got %d: %s", w.Code, w.Body.String())
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), "id", id)
	w = httptest.NewRecorder()
	EditRecipe(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `value="200"`) {
		t.Fatalf("expected edit form with stored quantity, got %d", w.Code)
	}
	if state := loadEditor(req, editorRecipes); state.Mode != costing.ModeEditing || state.ID != id {
		t.Fatalf("expected editing state, got %+v", state)
	}

	form.Set("id", "someone-else")
	w = httptest.NewRecorder()
	SaveRecipe(w, formRequest("/app/recipes", form).WithContext(ctx))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for mismatched id, got %d", w.Code)
	}

	form.Set("id", id)
	form.Set("quantity", "400")
	w = httptest.NewRecorder()
	SaveRecipe(w, formRequest("/app/recipes", form).WithContext(ctx))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after update, got %d", w.Code)
	}
	var recipe models.Recipe
	if err := database.First(&recipe, "id = ?", id).Error; err != nil {
		t.Fatalf("load recipe: %v", err)
	}
	if math.Abs(recipe.TotalCost-2) > 1e-9 {
		t.Fatalf("expected updated total 2, got %v", recipe.TotalCost)
	}
}

func TestListOwnersAPI(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	withAdmins(t, "chef@example.com")

	cook := seedUser(t, database, "cook@example.com", "Cook")
	chef := seedUser(t, database, "chef@example.com", "Chef")
	seedMaterial(t, database, cook, "Flour", 0.005, "g")

	cookCtx := sessionContext(t, sm)
	signIn(sm, cookCtx, cook)
	w := httptest.NewRecorder()
	ListOwnersAPI(w, httptest.NewRequest(http.MethodGet, "/app/api/owners", nil).WithContext(cookCtx))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	chefCtx := sessionContext(t, sm)
	signIn(sm, chefCtx, chef)
	w = httptest.NewRecorder()
	ListOwnersAPI(w, httptest.NewRequest(http.MethodGet, "/app/api/owners", nil).WithContext(chefCtx))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"Cook"`) {
		t.Fatalf("expected owner list, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDashboardListsOwnRecords(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	database, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	cook := seedUser(t, database, "cook@example.com", "Cook")
	other := seedUser(t, database, "other@example.com", "Other")
	seedMaterial(t, database, cook, "Flour", 0.005, "g")
	seedMaterial(t, database, other, "Saffron", 20, "g")

	ctx := sessionContext(t, sm)
	signIn(sm, ctx, cook)
	flash(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), "Material saved.")

	w := httptest.NewRecorder()
	Dashboard(w, httptest.NewRequest(http.MethodGet, "/app?owner="+jsonUint(other.ID), nil).WithContext(ctx))
	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(body, "Flour") || strings.Contains(body, "Saffron") {
		t.Fatalf("expected only own materials despite owner filter: %s", body)
	}
	if !strings.Contains(body, "Material saved.") {
		t.Fatalf("expected flash message: %s", body)
	}

	w = httptest.NewRecorder()
	Dashboard(w, httptest.NewRequest(http.MethodPost, "/app", nil).WithContext(ctx))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestDashboardRedirectsAnonymous(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	w := httptest.NewRecorder()
	Dashboard(w, httptest.NewRequest(http.MethodGet, "/app", nil).WithContext(sessionContext(t, sm)))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
}
