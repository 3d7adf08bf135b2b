package layout

import (
	"github.com/a-h/templ"

	"recipecost/internal/views/components"
)

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;background:#faf7f2;color:#2b2118}
header{display:flex;justify-content:space-between;align-items:center;padding:.75rem 1.5rem;background:#2b2118;color:#faf7f2}
header a{color:#faf7f2}
main{max-width:960px;margin:1.5rem auto;padding:0 1rem}
.field{display:flex;flex-direction:column;margin-bottom:.75rem}
.alert{background:#fde2e1;border:1px solid #e59a97;padding:.5rem .75rem;margin-bottom:1rem}
table{width:100%;border-collapse:collapse}td,th{padding:.35rem;border-bottom:1px solid #e6ded3;text-align:left}
.numeric{text-align:right}`

// Page wraps content in the document shell. Signed-in pages get the top bar
// with the sign-out link.
func Page(title string, authenticated bool, content templ.Component) templ.Component {
	return components.Func(func(h *components.Writer) {
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`)
		h.Text(title)
		h.Raw(`</title><script src="https://unpkg.com/htmx.org@1.9.12" defer></script><style>`, stylesheet, `</style></head>`)
		h.Raw(`<body`)
		h.Attr("class", bodyClass(authenticated))
		h.Raw(`>`)
		if authenticated {
			h.Raw(`<header><a href="/app"><strong>Recipe Cost</strong></a><nav>`)
			h.Raw(`<a href="/app/materials/new">New material</a> · <a href="/app/recipes/new">New recipe</a> · `)
			h.Raw(`<form method="post" action="/logout" style="display:inline"><button type="submit">Sign out</button></form>`)
			h.Raw(`</nav></header>`)
		}
		h.Raw(`<main id="content">`)
		h.Render(content)
		h.Raw(`</main></body></html>`)
	})
}

func bodyClass(authenticated bool) string {
	if authenticated {
		return "app"
	}
	return "public"
}
