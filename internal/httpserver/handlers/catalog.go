package handlers

import (
	"net/http"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
)

// ListResources serves the catalog, filtered by ?q= substring and
// ?category= when present.
func ListResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		writeJSON(w, http.StatusOK, d.Catalog.Filter(q.Get("q"), q.Get("category")))
	}
}

// ListCategories serves the category facets.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Catalog.Categories())
	}
}
