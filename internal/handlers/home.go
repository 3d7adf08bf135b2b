package handlers

import "net/http"

// Home sends visitors to the dashboard or the sign-in page.
func Home(w http.ResponseWriter, r *http.Request) {
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	redirectToLogin(w, r)
}
