package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
	"github.com/toolshelf/shelf/internal/httpserver/handlers"
)

func init() { Register(registerSharePage) }

// The share page lives outside /api so the link users pass around is
// the same path the frontend serves.
func registerSharePage(r chi.Router, d deps.Deps) {
	r.Get("/collection/{shareId}", handlers.SharedCollectionPage(d))
}
