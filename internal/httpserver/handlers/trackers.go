package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
)

const defaultTopLimit = 10

type viewResponse struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

type bookmarkResponse struct {
	ID         int  `json:"id"`
	Bookmarked bool `json:"bookmarked"`
}

func resourceID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "resource id must be an integer")
		return 0, false
	}
	return id, true
}

// RecordView increments a resource's view count.
func RecordView(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resourceID(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, viewResponse{ID: id, Count: d.Views.Increment(id)})
	}
}

// TopViews serves the most viewed resources.
func TopViews(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultTopLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		writeJSON(w, http.StatusOK, d.Views.Top(limit))
	}
}

// MarkRead marks a resource as read.
func MarkRead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resourceID(w, r)
		if !ok {
			return
		}
		d.Read.MarkRead(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// MarkUnread marks a resource as unread.
func MarkUnread(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resourceID(w, r)
		if !ok {
			return
		}
		d.Read.MarkUnread(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleBookmark toggles a resource bookmark, enriching the record with
// catalog metadata when the resource is known.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resourceID(w, r)
		if !ok {
			return
		}

		var name, category string
		if res, found := d.Catalog.Get(id); found {
			name = res.Name
			category = res.Category
		}

		bookmarked := d.Bookmarks.Toggle(id, name, category)
		writeJSON(w, http.StatusOK, bookmarkResponse{ID: id, Bookmarked: bookmarked})
	}
}

// ListBookmarks serves the bookmark list, most recent first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Bookmarks.All())
	}
}
