package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"recipecost/internal/costing"
	applog "recipecost/internal/log"
	"recipecost/internal/store"
	"recipecost/models"
)

const (
	editorMaterials = "materials"
	editorRecipes   = "recipes"

	sessionFlashKey = "app:flash"
)

func editorModeKey(kind string) string { return "editor:" + kind + ":mode" }
func editorIDKey(kind string) string   { return "editor:" + kind + ":id" }

// loadEditor returns the editor state of one entity kind from the session.
func loadEditor(r *http.Request, kind string) costing.EditorState {
	if sessionManager == nil {
		return costing.Viewing()
	}
	return costing.EditorState{
		Mode: costing.EditorMode(sessionManager.GetString(r.Context(), editorModeKey(kind))),
		ID:   sessionManager.GetString(r.Context(), editorIDKey(kind)),
	}.Normalize()
}

func storeEditor(r *http.Request, kind string, state costing.EditorState) {
	if sessionManager == nil {
		return
	}
	state = state.Normalize()
	sessionManager.Put(r.Context(), editorModeKey(kind), string(state.Mode))
	sessionManager.Put(r.Context(), editorIDKey(kind), state.ID)
}

// openEditor starts a fresh create or edit form. Navigating to a form
// abandons whatever form was open before.
func openEditor(r *http.Request, kind, id string) (costing.EditorState, error) {
	state := costing.Viewing()
	var err error
	if id == "" {
		state, err = state.Create()
	} else {
		state, err = state.Edit(id)
	}
	if err != nil {
		return costing.Viewing(), err
	}
	storeEditor(r, kind, state)
	return state, nil
}

func flash(r *http.Request, message string) {
	if sessionManager != nil {
		sessionManager.Put(r.Context(), sessionFlashKey, message)
	}
}

func popFlash(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	return sessionManager.PopString(r.Context(), sessionFlashKey)
}

func parseOwnerID(value string) uint {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

// actingAsOwner resolves the owner new records are written for. The owner
// name is read from the users table so snapshots carry a readable name.
func actingAsOwner(r *http.Request, actor store.Identity, ownerID uint) (store.Owner, error) {
	if ownerID == 0 || ownerID == actor.UserID {
		return store.ResolveOwner(actor, nil)
	}
	if !actor.Admin {
		return store.Owner{}, store.ErrForbidden
	}
	target := &store.Owner{ID: ownerID}
	if database != nil {
		var user models.User
		err := database.WithContext(r.Context()).First(&user, ownerID).Error
		switch {
		case err == nil:
			target.Name = user.DisplayName()
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return store.Owner{}, err
		}
	}
	return store.ResolveOwner(actor, target)
}

// catalogScope is the set of materials an actor may put into a recipe.
func catalogScope(actor store.Identity) store.Scope {
	if actor.Admin {
		return store.Scope{All: true}
	}
	return store.Scope{OwnerID: actor.UserID}
}

// writableScope is the set of records an actor may open for editing.
func writableScope(actor store.Identity) store.Scope {
	return catalogScope(actor)
}

func adminOwners(r *http.Request, actor store.Identity) []store.Owner {
	if !actor.Admin || recordStore == nil {
		return nil
	}
	owners, err := recordStore.ListOwners(r.Context(), actor)
	if err != nil {
		applog.Warn(r.Context(), "owner filter unavailable", "error", err)
		return nil
	}
	return owners
}
