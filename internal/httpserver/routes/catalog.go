package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
	"github.com/toolshelf/shelf/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Get("/api/resources", handlers.ListResources(d))
	r.Get("/api/categories", handlers.ListCategories(d))
	r.Post("/api/reload", handlers.Reload(d))
}
