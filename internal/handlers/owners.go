package handlers

import "net/http"

// ListOwnersAPI returns the distinct owners of stored records. Admin only.
func ListOwnersAPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiIdentity(w, r)
	if !ok {
		return
	}
	owners, err := recordStore.ListOwners(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, owners)
}
