package handlers

import (
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

type materialResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	PurchasePrice     float64   `json:"purchase_price"`
	PurchaseQuantity  float64   `json:"purchase_quantity"`
	PurchaseUnit      string    `json:"purchase_unit"`
	RecipeUnit        string    `json:"recipe_unit"`
	CostPerRecipeUnit float64   `json:"cost_per_recipe_unit"`
	OwnerID           uint      `json:"owner_id"`
	OwnerName         string    `json:"owner_name"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// materialRequest never carries the derived cost; it is always recomputed.
type materialRequest struct {
	Name             string  `json:"name"`
	PurchasePrice    float64 `json:"purchase_price"`
	PurchaseQuantity float64 `json:"purchase_quantity"`
	PurchaseUnit     string  `json:"purchase_unit"`
	RecipeUnit       string  `json:"recipe_unit"`
	ActingAsOwnerID  uint    `json:"acting_as_owner_id"`
}

func projectMaterial(material models.Material) materialResponse {
	return materialResponse{
		ID:                material.ID,
		Name:              material.Name,
		PurchasePrice:     material.PurchasePrice,
		PurchaseQuantity:  material.PurchaseQty,
		PurchaseUnit:      material.PurchaseUnit,
		RecipeUnit:        material.RecipeUnit,
		CostPerRecipeUnit: material.CostPerRecipeUnit,
		OwnerID:           material.OwnerID,
		OwnerName:         material.OwnerName,
		CreatedAt:         material.CreatedAt,
		UpdatedAt:         material.UpdatedAt,
	}
}

func (req materialRequest) purchase() (costing.MaterialPurchaseInput, float64, error) {
	purchaseUnit, err := costing.ParseUnit(req.PurchaseUnit)
	if err != nil {
		return costing.MaterialPurchaseInput{}, 0, err
	}
	recipeUnit, err := costing.ParseUnit(req.RecipeUnit)
	if err != nil {
		return costing.MaterialPurchaseInput{}, 0, err
	}
	in := costing.MaterialPurchaseInput{
		Name:         strings.TrimSpace(req.Name),
		Price:        req.PurchasePrice,
		Quantity:     req.PurchaseQuantity,
		PurchaseUnit: purchaseUnit,
		RecipeUnit:   recipeUnit,
	}
	return costedPurchase(in)
}

func costedPurchase(in costing.MaterialPurchaseInput) (costing.MaterialPurchaseInput, float64, error) {
	cost, err := in.Cost()
	if err != nil {
		return costing.MaterialPurchaseInput{}, 0, err
	}
	return in, cost, nil
}

func apiIdentity(w http.ResponseWriter, r *http.Request) (store.Identity, bool) {
	if recordStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "storage is not available")
		return store.Identity{}, false
	}
	actor, ok := currentIdentity(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return store.Identity{}, false
	}
	return actor, true
}

// ListMaterialsAPI returns the materials visible to the caller ordered by name.
// Admins may narrow the list with ?owner=<id>.
func ListMaterialsAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	scope, err := store.ScopeFor(actor, parseOwnerID(r.URL.Query().Get("owner")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	materials, err := recordStore.ListMaterials(r.Context(), scope)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	responses := make([]materialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, projectMaterial(material))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateMaterialAPI registers a material and returns it with its derived cost.
func CreateMaterialAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	var payload materialRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeDomainError(w, r, err)
		return
	}
	owner, err := actingAsOwner(r, actor, payload.ActingAsOwnerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	in, cost, err := payload.purchase()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	material, err := recordStore.AddMaterial(r.Context(), owner, in, cost)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "material created", "id", material.ID, "owner", owner.ID)
	writeJSON(w, http.StatusCreated, projectMaterial(*material))
}

// GetMaterialAPI returns one material.
func GetMaterialAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	material, err := recordStore.GetMaterial(r.Context(), writableScope(actor), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectMaterial(*material))
}

// UpdateMaterialAPI replaces the purchase fields of a material.
func UpdateMaterialAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	var payload materialRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeDomainError(w, r, err)
		return
	}
	in, cost, err := payload.purchase()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	material, err := recordStore.UpdateMaterial(r.Context(), actor, chi.URLParam(r, "id"), in, cost)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "material updated", "id", material.ID)
	writeJSON(w, http.StatusOK, projectMaterial(*material))
}

func pageIdentity(w http.ResponseWriter, r *http.Request) (store.Identity, bool) {
	if recordStore == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return store.Identity{}, false
	}
	actor, ok := currentIdentity(r)
	if !ok {
		redirectToLogin(w, r)
		return store.Identity{}, false
	}
	return actor, true
}

// NewMaterial opens an empty material form.
func NewMaterial(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	state, err := openEditor(r, editorMaterials, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderMaterialForm(w, r, http.StatusOK, pages.MaterialFormData{
		State:  state,
		Admin:  actor.Admin,
		Owners: adminOwners(r, actor),
	})
}

// EditMaterial opens the form of an existing material.
func EditMaterial(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	material, err := recordStore.GetMaterial(r.Context(), writableScope(actor), chi.URLParam(r, "id"))
	if err != nil {
		status, message := errorStatus(err)
		http.Error(w, message, status)
		return
	}
	state, err := openEditor(r, editorMaterials, material.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderMaterialForm(w, r, http.StatusOK, pages.MaterialFormData{
		State: state,
		Form: costing.MaterialPurchaseForm{
			Name:         material.Name,
			Price:        components.Quantity(material.PurchasePrice),
			Quantity:     components.Quantity(material.PurchaseQty),
			PurchaseUnit: material.PurchaseUnit,
			RecipeUnit:   material.RecipeUnit,
		},
		Admin: actor.Admin,
	})
}

// SaveMaterial submits the open material form. Rejected submissions keep the
// form open with the typed values.
func SaveMaterial(w http.ResponseWriter, r *http.Request) {
	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	state := loadEditor(r, editorMaterials)
	if !state.Open() || (state.Mode == costing.ModeEditing && state.ID != r.PostFormValue("id")) {
		applog.Debug(r.Context(), "material form submitted without matching editor", "mode", state.Mode)
		http.Error(w, "this form is no longer open, please start again", http.StatusConflict)
		return
	}

	form := costing.MaterialPurchaseForm{
		Name:         r.PostFormValue("name"),
		Price:        r.PostFormValue("purchase_price"),
		Quantity:     r.PostFormValue("purchase_quantity"),
		PurchaseUnit: r.PostFormValue("purchase_unit"),
		RecipeUnit:   r.PostFormValue("recipe_unit"),
	}
	actingAs := parseOwnerID(r.PostFormValue("acting_as"))

	reject := func(err error) {
		state, _ = state.Rejected()
		storeEditor(r, editorMaterials, state)
		status, message := errorStatus(err)
		if status >= http.StatusInternalServerError {
			applog.Error(r.Context(), "failed to save material", "error", err)
		}
		renderMaterialForm(w, r, status, pages.MaterialFormData{
			State:    state,
			Form:     form,
			Message:  message,
			Admin:    actor.Admin,
			Owners:   adminOwners(r, actor),
			ActingAs: actingAs,
		})
	}

	in, cost, err := costing.ParseMaterialCost(form)
	if err != nil {
		reject(err)
		return
	}

	if state.Mode == costing.ModeCreating {
		var owner store.Owner
		owner, err = actingAsOwner(r, actor, actingAs)
		if err == nil {
			_, err = recordStore.AddMaterial(r.Context(), owner, in, cost)
		}
	} else {
		_, err = recordStore.UpdateMaterial(r.Context(), actor, state.ID, in, cost)
	}
	if err != nil {
		reject(err)
		return
	}

	state, _ = state.Saved()
	storeEditor(r, editorMaterials, state)
	flash(r, "Material saved.")
	redirectToApp(w, r)
}

// CancelMaterial closes the material form without saving.
func CancelMaterial(w http.ResponseWriter, r *http.Request) {
	state := loadEditor(r, editorMaterials)
	if next, err := state.Cancel(); err == nil {
		storeEditor(r, editorMaterials, next)
	}
	redirectToApp(w, r)
}

func renderMaterialForm(w http.ResponseWriter, r *http.Request, status int, data pages.MaterialFormData) {
	var component templ.Component
	if isHTMX(r) {
		component = pages.MaterialFormContent(data)
	} else {
		component = pages.MaterialForm(data)
	}
	renderComponent(w, r, status, component)
}

func renderComponent(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
	}
}
