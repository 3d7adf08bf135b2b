package pages

import (
	"github.com/a-h/templ"

	"recipecost/internal/costing"
	"recipecost/internal/store"
	"recipecost/internal/views/components"
	"recipecost/internal/views/layout"
)

// MaterialFormData drives the material create and edit form.
type MaterialFormData struct {
	State    costing.EditorState
	Form     costing.MaterialPurchaseForm
	Message  string
	Admin    bool
	Owners   []store.Owner
	ActingAs uint
}

// MaterialForm renders the material editor page.
func MaterialForm(data MaterialFormData) templ.Component {
	return layout.Page(materialTitle(data.State)+" · Recipe Cost", true, MaterialFormContent(data))
}

// MaterialFormContent renders the material editor without the document shell.
func MaterialFormContent(data MaterialFormData) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<section class="editor" id="material-editor"><h1>`)
		h.Text(materialTitle(data.State))
		h.Raw(`</h1>`)
		h.Render(components.Alert(data.Message))
		h.Raw(`<form method="post" action="/app/materials">`)
		if data.State.Mode == costing.ModeEditing {
			h.Raw(`<input type="hidden" name="id"`)
			h.Attr("value", data.State.ID)
			h.Raw(`>`)
		}
		if data.Admin && data.State.Mode == costing.ModeCreating {
			h.Render(components.Select("Owner", "acting_as", "Myself", ownerValue(data.ActingAs), ownerOptions(data.Owners)))
		}
		h.Render(components.Field("Name", "name", "text", data.Form.Name, true))
		h.Render(components.Field("Purchase price", "purchase_price", "text", data.Form.Price, true))
		h.Render(components.Field("Purchase quantity", "purchase_quantity", "text", data.Form.Quantity, true))
		h.Render(components.UnitSelect("Purchase unit", "purchase_unit", data.Form.PurchaseUnit))
		h.Render(components.UnitSelect("Recipe unit", "recipe_unit", data.Form.RecipeUnit))
		h.Raw(`<button type="submit">Save material</button> `)
		h.Raw(`<button type="submit" formaction="/app/materials/cancel" formnovalidate>Cancel</button>`)
		h.Raw(`</form></section>`)
	})
}

func materialTitle(state costing.EditorState) string {
	if state.Mode == costing.ModeEditing {
		return "Edit material"
	}
	return "New material"
}
