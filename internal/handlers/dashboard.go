package handlers

import (
	"net/http"

	templpkg "github.com/a-h/templ"

	applog "recipecost/internal/log"
	"recipecost/internal/store"
	"recipecost/internal/views/pages"
)

// Dashboard renders the recipe and material lists of the signed-in user.
// Admins see every owner unless they pick one with ?owner=<id>.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	actor, ok := pageIdentity(w, r)
	if !ok {
		return
	}

	ownerFilter := parseOwnerID(r.URL.Query().Get("owner"))
	scope, err := store.ScopeFor(actor, ownerFilter)
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	materials, err := recordStore.ListMaterials(r.Context(), scope)
	if err != nil {
		applog.Error(r.Context(), "failed to load materials for dashboard", "error", err)
		http.Error(w, "We were unable to load your materials. Please try again.", http.StatusInternalServerError)
		return
	}
	recipes, err := recordStore.ListRecipes(r.Context(), scope)
	if err != nil {
		applog.Error(r.Context(), "failed to load recipes for dashboard", "error", err)
		http.Error(w, "We were unable to load your recipes. Please try again.", http.StatusInternalServerError)
		return
	}

	name := store.OwnerOf(actor).Name
	data := pages.DashboardData{
		UserName:  name,
		Admin:     actor.Admin,
		Owners:    adminOwners(r, actor),
		Materials: materials,
		Recipes:   recipes,
		Message:   popFlash(r),
	}
	if actor.Admin {
		data.OwnerFilter = ownerFilter
	}

	var component templpkg.Component
	if isHTMX(r) {
		component = pages.DashboardContent(data)
	} else {
		component = pages.Dashboard(data)
	}
	renderComponent(w, r, http.StatusOK, component)
}
