package pages

import (
	"strconv"

	"github.com/a-h/templ"

	"recipecost/internal/store"
	"recipecost/internal/views/components"
	"recipecost/internal/views/layout"
	"recipecost/models"
)

// DashboardData is everything shown on the signed-in home page.
type DashboardData struct {
	UserName    string
	Admin       bool
	Owners      []store.Owner
	OwnerFilter uint
	Materials   []models.Material
	Recipes     []models.Recipe
	Message     string
}

// Dashboard renders the recipe and material lists.
func Dashboard(data DashboardData) templ.Component {
	return layout.Page("Recipe Cost", true, DashboardContent(data))
}

// DashboardContent renders the dashboard body without the document shell.
func DashboardContent(data DashboardData) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<section class="dashboard"><h1>Welcome, `)
		h.Text(data.UserName)
		h.Raw(`</h1>`)
		h.Render(components.Alert(data.Message))

		if data.Admin {
			h.Raw(`<form method="get" action="/app" class="owner-filter">`)
			h.Render(components.Select("Show records of", "owner", "Everyone", ownerValue(data.OwnerFilter), ownerOptions(data.Owners)))
			h.Raw(`<button type="submit">Filter</button></form>`)
		}

		h.Raw(`<h2>Recipes</h2>`)
		if len(data.Recipes) == 0 {
			h.Raw(`<p class="empty">No recipes yet. <a href="/app/recipes/new">Create the first one</a>.</p>`)
		} else {
			h.Raw(`<table class="recipes"><thead><tr><th>Name</th><th class="numeric">Total cost</th><th class="numeric">Margin</th><th class="numeric">Suggested price</th>`)
			if data.Admin {
				h.Raw(`<th>Owner</th>`)
			}
			h.Raw(`</tr></thead><tbody>`)
			for _, recipe := range data.Recipes {
				h.Raw(`<tr><td><a`)
				h.Attr("href", "/app/recipes/"+recipe.ID)
				h.Raw(`>`)
				h.Text(recipe.Name)
				h.Raw(`</a></td><td class="numeric">`)
				h.Text(components.Money(recipe.TotalCost))
				h.Raw(`</td><td class="numeric">`)
				h.Text(components.Quantity(recipe.MarginPercent) + "%")
				h.Raw(`</td><td class="numeric">`)
				h.Text(components.Money(recipe.SuggestedSalePrice))
				h.Raw(`</td>`)
				if data.Admin {
					h.Raw(`<td>`)
					h.Text(recipe.OwnerName)
					h.Raw(`</td>`)
				}
				h.Raw(`</tr>`)
			}
			h.Raw(`</tbody></table>`)
		}

		h.Raw(`<h2>Materials</h2>`)
		if len(data.Materials) == 0 {
			h.Raw(`<p class="empty">No materials yet. <a href="/app/materials/new">Register one</a>.</p>`)
		} else {
			h.Raw(`<table class="materials"><thead><tr><th>Name</th><th>Purchase</th><th class="numeric">Cost per recipe unit</th>`)
			if data.Admin {
				h.Raw(`<th>Owner</th>`)
			}
			h.Raw(`<th></th></tr></thead><tbody>`)
			for _, material := range data.Materials {
				h.Raw(`<tr><td>`)
				h.Text(material.Name)
				h.Raw(`</td><td>`)
				h.Text(components.Money(material.PurchasePrice) + " / " + components.Quantity(material.PurchaseQty) + " " + material.PurchaseUnit)
				h.Raw(`</td><td class="numeric">`)
				h.Text(components.UnitCost(material.CostPerRecipeUnit) + " / " + material.RecipeUnit)
				h.Raw(`</td>`)
				if data.Admin {
					h.Raw(`<td>`)
					h.Text(material.OwnerName)
					h.Raw(`</td>`)
				}
				h.Raw(`<td><a`)
				h.Attr("href", "/app/materials/"+material.ID+"/edit")
				h.Raw(`>Edit</a></td></tr>`)
			}
			h.Raw(`</tbody></table>`)
		}
		h.Raw(`</section>`)
	})
}

func ownerValue(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}

func ownerOptions(owners []store.Owner) []components.Option {
	options := make([]components.Option, 0, len(owners))
	for _, owner := range owners {
		options = append(options, components.Option{Value: ownerValue(owner.ID), Label: owner.Name})
	}
	return options
}
