package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
	"github.com/toolshelf/shelf/internal/httpserver/handlers"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", handlers.ListCollections(d))
		r.Post("/", handlers.CreateCollection(d))
		r.Get("/recent", handlers.RecentCollections(d))
		r.Get("/pinned", handlers.PinnedCollections(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetCollection(d))
			r.Put("/", handlers.UpdateCollection(d))
			r.Delete("/", handlers.DeleteCollection(d))
			r.Post("/items", handlers.AddCollectionItems(d))
			r.Delete("/items/{rid}", handlers.RemoveCollectionItem(d))
			r.Post("/pin", handlers.TogglePin(d))
			r.Post("/duplicate", handlers.DuplicateCollection(d))
			r.Post("/share", handlers.ShareCollection(d))
			r.Delete("/share", handlers.UnshareCollection(d))
			r.Get("/stats", handlers.CollectionStats(d))
		})
	})
}
