package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"recipecost/internal/costing"
	applog "recipecost/internal/log"
	"recipecost/internal/store"
	"recipecost/internal/views/components"
	"recipecost/internal/views/pages"
	"recipecost/models"
)

type ingredientResponse struct {
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
}

type recipeResponse struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Instructions       string               `json:"instructions"`
	Ingredients        []ingredientResponse `json:"ingredients"`
	TotalCost          float64              `json:"total_cost"`
	MarginPercent      float64              `json:"margin_percent"`
	SuggestedSalePrice float64              `json:"suggested_sale_price"`
	OwnerID            uint                 `json:"owner_id"`
	OwnerName          string               `json:"owner_name"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type previewResponse struct {
	Ingredients        []ingredientResponse `json:"ingredients"`
	TotalCost          float64              `json:"total_cost"`
	MarginPercent      float64              `json:"margin_percent"`
	SuggestedSalePrice float64              `json:"suggested_sale_price"`
}

type ingredientRequest struct {
	MaterialID string      `json:"material_id"`
	Quantity   json.Number `json:"quantity"`
}

// recipeRequest has no totals; they are derived from the rows and margin.
type recipeRequest struct {
	Name            string              `json:"name"`
	Instructions    string              `json:"instructions"`
	Ingredients     []ingredientRequest `json:"ingredients"`
	MarginPercent   *float64            `json:"margin_percent"`
	ActingAsOwnerID uint                `json:"acting_as_owner_id"`
}

func (req recipeRequest) draft() costing.RecipeDraft {
	rows := make([]costing.IngredientRow, 0, len(req.Ingredients))
	for _, ingredient := range req.Ingredients {
		rows = append(rows, costing.IngredientRow{MaterialID: ingredient.MaterialID, Quantity: ingredient.Quantity.String()})
	}
	margin := defaultMargin
	if req.MarginPercent != nil {
		margin = *req.MarginPercent
	}
	return costing.RecipeDraft{
		Name:          req.Name,
		Instructions:  req.Instructions,
		Rows:          rows,
		MarginPercent: margin,
	}
}

func projectIngredients(ingredients []costing.RecipeIngredient) []ingredientResponse {
	out := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		out = append(out, ingredientResponse{
			MaterialID:   ingredient.MaterialID,
			MaterialName: ingredient.MaterialName,
			Quantity:     ingredient.Quantity,
			Unit:         ingredient.Unit.String(),
			Cost:         ingredient.Cost,
		})
	}
	return out
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	return recipeResponse{
		ID:                 recipe.ID,
		Name:               recipe.Name,
		Instructions:       recipe.Instructions,
		Ingredients:        projectIngredients(store.Ingredients(recipe)),
		TotalCost:          recipe.TotalCost,
		MarginPercent:      recipe.MarginPercent,
		SuggestedSalePrice: recipe.SuggestedSalePrice,
		OwnerID:            recipe.OwnerID,
		OwnerName:          recipe.OwnerName,
		CreatedAt:          recipe.CreatedAt,
		UpdatedAt:          recipe.UpdatedAt,
	}
}

// parseMarginField reads a margin typed into a form, falling back to the
// configured default when blank.
func parseMarginField(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return defaultMargin, nil
	}
	return costing.ParseMargin(value)
}

func formRows(r *http.Request) []costing.IngredientRow {
	materialIDs := r.PostForm["material_id"]
	quantities := r.PostForm["quantity"]
	count := len(materialIDs)
	if len(quantities) > count {
		count = len(quantities)
	}
	rows := make([]costing.IngredientRow, 0, count)
	for i := 0; i < count; i++ {
		var row costing.IngredientRow
		if i < len(materialIDs) {
			row.MaterialID = materialIDs[i]
		}
		if i < len(quantities) {
			row.Quantity = quantities[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func composeForActor(r *http.Request, actor store.Identity, draft costing.RecipeDraft) (costing.RecipeComposition, error) {
	catalog, err := recordStore.Catalog(r.Context(), catalogScope(actor))
	if err != nil {
		return costing.RecipeComposition{}, err
	}
	return costing.ComposeRecipe(draft, catalog)
}

// ListRecipesAPI returns the recipes visible to the caller, newest first.
func ListRecipesAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	scope, err := store.ScopeFor(actor, parseOwnerID(r.URL.Query().Get("owner")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	recipes, err := recordStore.ListRecipes(r.Context(), scope)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	responses := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, projectRecipe(recipe))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateRecipeAPI composes, prices and stores a recipe.
func CreateRecipeAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	var payload recipeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeDomainError(w, r, err)
		return
	}
	owner, err := actingAsOwner(r, actor, payload.ActingAsOwnerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	composition, err := composeForActor(r, actor, payload.draft())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	recipe, err := recordStore.AddRecipe(r.Context(), owner, composition)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "recipe created", "id", recipe.ID, "owner", owner.ID, "ingredients", len(recipe.Ingredients))
	writeJSON(w, http.StatusCreated, projectRecipe(*recipe))
}

// GetRecipeAPI returns one recipe with its ingredient snapshots.
func GetRecipeAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	recipe, err := recordStore.GetRecipe(r.Context(), writableScope(actor), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(*recipe))
}

// UpdateRecipeAPI re-composes a recipe from the submitted rows and margin.
func UpdateRecipeAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	var payload recipeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeDomainError(w, r, err)
		return
	}
	composition, err := composeForActor(r, actor, payload.draft())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	recipe, err := recordStore.UpdateRecipe(r.Context(), actor, chi.URLParam(r, "id"), composition)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "recipe updated", "id", recipe.ID)
	writeJSON(w, http.StatusOK, projectRecipe(*recipe))
}

// PreviewRecipe prices unsaved rows. It accepts a JSON body or the recipe
// form; HTMX callers get an HTML fragment instead of JSON. Nothing is stored
// and name and instructions are not required.
func PreviewRecipe(w http.ResponseWriter, r *http.Request) {
	htmx := isHTMX(r)
	var (
		actor store.Identity
		ok    bool
	)
	if htmx {
		actor, ok = currentIdentity(r)
		if recordStore == nil || !ok {
			renderComponent(w, r, http.StatusOK, pages.RecipePreview(nil, costing.RecipeTotals{}, "Preview is not available right now."))
			return
		}
	} else if actor, ok = apiIdentity(w, r); !ok {
		return
	}

	var (
		rows   []costing.IngredientRow
		margin float64
		err    error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload recipeRequest
		if err = decodeJSON(r, &payload); err == nil {
			draft := payload.draft()
			rows, margin = draft.Rows, draft.MarginPercent
		}
	} else if err = r.ParseForm(); err == nil {
		rows = formRows(r)
		margin, err = parseMarginField(r.PostFormValue("margin_percent"))
	}

	var (
		ingredients []costing.RecipeIngredient
		totals      costing.RecipeTotals
	)
	if err == nil {
		var catalog costing.CatalogMap
		catalog, err = recordStore.Catalog(r.Context(), catalogScope(actor))
		if err == nil {
			ingredients, err = costing.BuildIngredients(rows, catalog)
		}
		if err == nil {
			totals, err = costing.PriceRecipe(ingredients, margin)
		}
	}

	if err != nil {
		if htmx {
			_, message := errorStatus(err)
			renderComponent(w, r, http.StatusOK, pages.RecipePreview(nil, costing.RecipeTotals{}, message))
			return
		}
		writeDomainError(w, r, err)
		return
	}

	if htmx {
		renderComponent(w, r, http.StatusOK, pages.RecipePreview(ingredients, totals, ""))
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{
		Ingredients:        projectIngredients(ingredients),
		TotalCost:          totals.TotalCost,
		MarginPercent:      totals.MarginPercent,
		SuggestedSalePrice: totals.SuggestedSalePrice,
	})
}

// NewRecipe opens an empty recipe form.
func NewRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	state, err := openEditor(r, editorRecipes, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	materials, err := recordStore.ListMaterials(r.Context(), catalogScope(actor))
	if err != nil {
		status, message := errorStatus(err)
		http.Error(w, message, status)
		return
	}
	renderRecipeForm(w, r, http.StatusOK, pages.RecipeFormData{
		State:     state,
		Margin:    components.Quantity(defaultMargin),
		Materials: materials,
		Totals:    costing.AggregateRecipe(nil, defaultMargin),
		Admin:     actor.Admin,
		Owners:    adminOwners(r, actor),
	})
}

// ShowRecipe renders a stored recipe.
func ShowRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	recipe, err := recordStore.GetRecipe(r.Context(), writableScope(actor), chi.URLParam(r, "id"))
	if err != nil {
		status, message := errorStatus(err)
		http.Error(w, message, status)
		return
	}
	var component templ.Component
	if isHTMX(r) {
		component = pages.RecipeDetailContent(*recipe, true)
	} else {
		component = pages.RecipeDetail(*recipe, true)
	}
	renderComponent(w, r, http.StatusOK, component)
}

// EditRecipe opens the form of an existing recipe with its stored rows.
func EditRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	recipe, err := recordStore.GetRecipe(r.Context(), writableScope(actor), chi.URLParam(r, "id"))
	if err != nil {
		status, message := errorStatus(err)
		http.Error(w, message, status)
		return
	}
	state, err := openEditor(r, editorRecipes, recipe.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	materials, err := recordStore.ListMaterials(r.Context(), catalogScope(actor))
	if err != nil {
		status, message := errorStatus(err)
		http.Error(w, message, status)
		return
	}
	rows := make([]costing.IngredientRow, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		rows = append(rows, costing.IngredientRow{MaterialID: ingredient.MaterialID, Quantity: components.Quantity(ingredient.Quantity)})
	}
	ingredients := store.Ingredients(*recipe)
	renderRecipeForm(w, r, http.StatusOK, pages.RecipeFormData{
		State:        state,
		Name:         recipe.Name,
		Instructions: recipe.Instructions,
		Margin:       components.Quantity(recipe.MarginPercent),
		Rows:         rows,
		Materials:    materials,
		Ingredients:  ingredients,
		Totals:       costing.AggregateRecipe(ingredients, recipe.MarginPercent),
		Admin:        actor.Admin,
	})
}

// SaveRecipe submits the open recipe form.
func SaveRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	state := loadEditor(r, editorRecipes)
	if !state.Open() || (state.Mode == costing.ModeEditing && state.ID != r.PostFormValue("id")) {
		applog.Debug(r.Context(), "recipe form submitted without matching editor", "mode", state.Mode)
		http.Error(w, "this form is no longer open, please start again", http.StatusConflict)
		return
	}

	data := pages.RecipeFormData{
		Name:         r.PostFormValue("name"),
		Instructions: r.PostFormValue("instructions"),
		Margin:       r.PostFormValue("margin_percent"),
		Rows:         formRows(r),
		Admin:        actor.Admin,
		ActingAs:     parseOwnerID(r.PostFormValue("acting_as")),
	}

	reject := func(err error) {
		state, _ = state.Rejected()
		storeEditor(r, editorRecipes, state)
		status, message := errorStatus(err)
		if status >= http.StatusInternalServerError {
			applog.Error(r.Context(), "failed to save recipe", "error", err)
		}
		data.State = state
		data.Message = message
		data.Owners = adminOwners(r, actor)
		if materials, listErr := recordStore.ListMaterials(r.Context(), catalogScope(actor)); listErr == nil {
			data.Materials = materials
		}
		renderRecipeForm(w, r, status, data)
	}

	margin, err := parseMarginField(data.Margin)
	if err != nil {
		reject(err)
		return
	}
	composition, err := composeForActor(r, actor, costing.RecipeDraft{
		Name:          data.Name,
		Instructions:  data.Instructions,
		Rows:          data.Rows,
		MarginPercent: margin,
	})
	if err != nil {
		reject(err)
		return
	}
	data.Ingredients = composition.Ingredients
	data.Totals = composition.Totals

	var recipe *models.Recipe
	if state.Mode == costing.ModeCreating {
		var owner store.Owner
		owner, err = actingAsOwner(r, actor, data.ActingAs)
		if err == nil {
			recipe, err = recordStore.AddRecipe(r.Context(), owner, composition)
		}
	} else {
		recipe, err = recordStore.UpdateRecipe(r.Context(), actor, state.ID, composition)
	}
	if err != nil {
		reject(err)
		return
	}

	state, _ = state.Saved()
	storeEditor(r, editorRecipes, state)
	flash(r, "Recipe saved.")
	applog.Debug(r.Context(), "recipe saved", "id", recipe.ID, "total", recipe.TotalCost)

	target := "/app/recipes/" + recipe.ID
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// CancelRecipe closes the recipe form without saving.
func CancelRecipe(w http.ResponseWriter, r *http.Request) {
	state := loadEditor(r, editorRecipes)
	if next, err := state.Cancel(); err == nil {
		storeEditor(r, editorRecipes, next)
	}
	redirectToApp(w, r)
}

func renderRecipeForm(w http.ResponseWriter, r *http.Request, status int, data pages.RecipeFormData) {
	var component templ.Component
	if isHTMX(r) {
		component = pages.RecipeFormContent(data)
	} else {
		component = pages.RecipeForm(data)
	}
	renderComponent(w, r, status, component)
}
