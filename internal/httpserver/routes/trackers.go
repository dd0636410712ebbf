package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
	"github.com/toolshelf/shelf/internal/httpserver/handlers"
)

func init() { Register(registerTrackers) }

func registerTrackers(r chi.Router, d deps.Deps) {
	r.Post("/api/resources/{id}/view", handlers.RecordView(d))
	r.Get("/api/views/top", handlers.TopViews(d))
	r.Post("/api/resources/{id}/read", handlers.MarkRead(d))
	r.Delete("/api/resources/{id}/read", handlers.MarkUnread(d))
	r.Post("/api/resources/{id}/bookmark", handlers.ToggleBookmark(d))
	r.Get("/api/bookmarks", handlers.ListBookmarks(d))
}
