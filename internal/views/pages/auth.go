package pages

import (
	"github.com/a-h/templ"

	"recipecost/internal/views/components"
	"recipecost/internal/views/layout"
)

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Page("Sign in · Recipe Cost", false, LoginPartial(message, email))
}

// LoginPartial renders only the sign-in form for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<section class="auth" id="auth-panel"><h1>Sign in</h1>`)
		h.Render(components.Alert(message))
		h.Raw(`<form method="post" action="/login" hx-post="/login" hx-target="#auth-panel" hx-swap="outerHTML">`)
		h.Render(components.Field("Email", "email", "email", email, true))
		h.Render(components.Field("Password", "password", "password", "", true))
		h.Raw(`<button type="submit">Sign in</button></form>`)
		h.Raw(`<p>No account yet? <a href="/signup">Create one</a>.</p></section>`)
	})
}

// Signup renders the full registration page.
func Signup(message, name, email string) templ.Component {
	return layout.Page("Create account · Recipe Cost", false, SignupPartial(message, name, email))
}

// SignupPartial renders only the registration form for HTMX swaps.
func SignupPartial(message, name, email string) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<section class="auth" id="auth-panel"><h1>Create account</h1>`)
		h.Render(components.Alert(message))
		h.Raw(`<form method="post" action="/signup" hx-post="/signup" hx-target="#auth-panel" hx-swap="outerHTML">`)
		h.Render(components.Field("Name", "name", "text", name, false))
		h.Render(components.Field("Email", "email", "email", email, true))
		h.Render(components.Field("Password", "password", "password", "", true))
		h.Render(components.Field("Confirm password", "confirm_password", "password", "", true))
		h.Raw(`<button type="submit">Create account</button></form>`)
		h.Raw(`<p>Already registered? <a href="/login">Sign in</a>.</p></section>`)
	})
}
