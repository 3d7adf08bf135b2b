package pages

import (
	"github.com/a-h/templ"

	"recipecost/internal/costing"
	"recipecost/internal/store"
	"recipecost/internal/views/components"
	"recipecost/internal/views/layout"
	"recipecost/models"
)

const minIngredientRows = 5

// RecipeFormData drives the recipe create and edit form.
type RecipeFormData struct {
	State        costing.EditorState
	Name         string
	Instructions string
	Margin       string
	Rows         []costing.IngredientRow
	Materials    []models.Material
	Ingredients  []costing.RecipeIngredient
	Totals       costing.RecipeTotals
	Message      string
	Admin        bool
	Owners       []store.Owner
	ActingAs     uint
}

// RecipeForm renders the recipe editor page.
func RecipeForm(data RecipeFormData) templ.Component {
	return layout.Page(recipeTitle(data.State)+" · Recipe Cost", true, RecipeFormContent(data))
}

// RecipeFormContent renders the recipe editor without the document shell.
func RecipeFormContent(data RecipeFormData) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<section class="editor" id="recipe-editor"><h1>`)
		h.Text(recipeTitle(data.State))
		h.Raw(`</h1>`)
		h.Render(components.Alert(data.Message))
		h.Raw(`<form method="post" action="/app/recipes">`)
		if data.State.Mode == costing.ModeEditing {
			h.Raw(`<input type="hidden" name="id"`)
			h.Attr("value", data.State.ID)
			h.Raw(`>`)
		}
		if data.Admin && data.State.Mode == costing.ModeCreating {
			h.Render(components.Select("Owner", "acting_as", "Myself", ownerValue(data.ActingAs), ownerOptions(data.Owners)))
		}
		h.Render(components.Field("Name", "name", "text", data.Name, true))
		h.Render(components.TextArea("Instructions", "instructions", data.Instructions))

		options := make([]components.Option, 0, len(data.Materials))
		for _, material := range data.Materials {
			options = append(options, components.Option{Value: material.ID, Label: material.Name + " (" + material.RecipeUnit + ")"})
		}

		h.Raw(`<fieldset class="ingredients"><legend>Ingredients</legend>`)
		rows := data.Rows
		for len(rows) < minIngredientRows {
			rows = append(rows, costing.IngredientRow{})
		}
		for _, row := range rows {
			h.Raw(`<div class="ingredient-row">`)
			h.Render(components.Select("Material", "material_id", "Choose a material", row.MaterialID, options))
			h.Render(components.Field("Quantity", "quantity", "text", row.Quantity, false))
			h.Raw(`</div>`)
		}
		h.Raw(`</fieldset>`)

		h.Render(components.Field("Profit margin (%)", "margin_percent", "text", data.Margin, false))
		h.Raw(`<div id="recipe-preview" hx-post="/app/api/recipes/preview" hx-trigger="change from:closest form, keyup delay:400ms from:closest form" hx-swap="innerHTML">`)
		h.Render(RecipePreview(data.Ingredients, data.Totals, ""))
		h.Raw(`</div>`)
		h.Raw(`<button type="submit">Save recipe</button> `)
		h.Raw(`<button type="submit" formaction="/app/recipes/cancel" formnovalidate>Cancel</button>`)
		h.Raw(`</form></section>`)
	})
}

// RecipePreview renders the live cost breakdown of unsaved form rows.
func RecipePreview(ingredients []costing.RecipeIngredient, totals costing.RecipeTotals, message string) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<div class="preview">`)
		h.Render(components.Alert(message))
		if len(ingredients) > 0 {
			h.Raw(`<ul>`)
			for _, ingredient := range ingredients {
				h.Raw(`<li>`)
				h.Text(ingredient.MaterialName + " · " + components.Quantity(ingredient.Quantity) + " " + ingredient.Unit.String())
				h.Raw(` <span class="numeric">`)
				h.Text(components.Money(ingredient.Cost))
				h.Raw(`</span></li>`)
			}
			h.Raw(`</ul>`)
		}
		h.Raw(`<p>Total cost: <strong id="preview-total">`)
		h.Text(components.Money(totals.TotalCost))
		h.Raw(`</strong></p><p>Suggested sale price: <strong id="preview-price">`)
		h.Text(components.Money(totals.SuggestedSalePrice))
		h.Raw(`</strong></p></div>`)
	})
}

// RecipeDetail renders a stored recipe with its ingredient snapshots.
func RecipeDetail(recipe models.Recipe, canEdit bool) templ.Component {
	return layout.Page(recipe.Name+" · Recipe Cost", true, RecipeDetailContent(recipe, canEdit))
}

// RecipeDetailContent renders a stored recipe without the document shell.
func RecipeDetailContent(recipe models.Recipe, canEdit bool) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<article class="recipe"><h1>`)
		h.Text(recipe.Name)
		h.Raw(`</h1>`)
		if recipe.OwnerName != "" {
			h.Raw(`<p class="owner">by `)
			h.Text(recipe.OwnerName)
			h.Raw(`</p>`)
		}
		h.Raw(`<table><thead><tr><th>Material</th><th class="numeric">Quantity</th><th class="numeric">Cost</th></tr></thead><tbody>`)
		for _, ingredient := range recipe.Ingredients {
			h.Raw(`<tr><td>`)
			h.Text(ingredient.MaterialName)
			h.Raw(`</td><td class="numeric">`)
			h.Text(components.Quantity(ingredient.Quantity) + " " + ingredient.Unit)
			h.Raw(`</td><td class="numeric">`)
			h.Text(components.Money(ingredient.Cost))
			h.Raw(`</td></tr>`)
		}
		h.Raw(`</tbody></table>`)
		h.Raw(`<p>Total cost: <strong>`)
		h.Text(components.Money(recipe.TotalCost))
		h.Raw(`</strong> · Margin: `)
		h.Text(components.Quantity(recipe.MarginPercent) + "%")
		h.Raw(` · Suggested sale price: <strong>`)
		h.Text(components.Money(recipe.SuggestedSalePrice))
		h.Raw(`</strong></p><h2>Instructions</h2><p class="instructions">`)
		h.Text(recipe.Instructions)
		h.Raw(`</p>`)
		if canEdit {
			h.Raw(`<a`)
			h.Attr("href", "/app/recipes/"+recipe.ID+"/edit")
			h.Raw(`>Edit recipe</a>`)
		}
		h.Raw(`</article>`)
	})
}

func recipeTitle(state costing.EditorState) string {
	if state.Mode == costing.ModeEditing {
		return "Edit recipe"
	}
	return "New recipe"
}
