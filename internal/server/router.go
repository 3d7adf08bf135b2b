package server

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"recipecost/internal/handlers"
	applog "recipecost/internal/log"
)

func newRouter(sessionManager *scs.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.RequestLogger)
	r.Use(middleware.Recoverer)

	applog.Debug(context.Background(), "registering http routes")
	r.Get("/healthz", handlers.Health)

	r.Group(func(r chi.Router) {
		if sessionManager != nil {
			r.Use(sessionManager.LoadAndSave)
		}

		r.Get("/", handlers.Home)
		r.HandleFunc("/login", handlers.Login)
		r.HandleFunc("/signup", handlers.Signup)
		r.HandleFunc("/logout", handlers.Logout)

		r.Route("/app", func(r chi.Router) {
			r.Route("/api", func(r chi.Router) {
				r.Use(handlers.RequireAPIAuthentication)
				r.Get("/materials", handlers.ListMaterialsAPI)
				r.Post("/materials", handlers.CreateMaterialAPI)
				r.Get("/materials/{id}", handlers.GetMaterialAPI)
				r.Put("/materials/{id}", handlers.UpdateMaterialAPI)
				r.Get("/recipes", handlers.ListRecipesAPI)
				r.Post("/recipes", handlers.CreateRecipeAPI)
				r.Post("/recipes/preview", handlers.PreviewRecipe)
				r.Get("/recipes/{id}", handlers.GetRecipeAPI)
				r.Put("/recipes/{id}", handlers.UpdateRecipeAPI)
				r.Get("/owners", handlers.ListOwnersAPI)
			})

			r.Group(func(r chi.Router) {
				r.Use(handlers.RequireAuthentication)
				r.Get("/", handlers.Dashboard)
				r.Get("/materials/new", handlers.NewMaterial)
				r.Get("/materials/{id}/edit", handlers.EditMaterial)
				r.Post("/materials", handlers.SaveMaterial)
				r.Post("/materials/cancel", handlers.CancelMaterial)
				r.Get("/recipes/new", handlers.NewRecipe)
				r.Get("/recipes/{id}", handlers.ShowRecipe)
				r.Get("/recipes/{id}/edit", handlers.EditRecipe)
				r.Post("/recipes", handlers.SaveRecipe)
				r.Post("/recipes/cancel", handlers.CancelRecipe)
			})
		})
	})
	applog.Debug(context.Background(), "http routes registered")

	return r
}
