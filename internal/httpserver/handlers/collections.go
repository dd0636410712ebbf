package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/collections"
	"github.com/toolshelf/shelf/internal/domain"
	"github.com/toolshelf/shelf/internal/httpserver/deps"
)

type createCollectionRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Pinned      bool     `json:"pinned,omitempty"`
}

type updateCollectionRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type addItemsRequest struct {
	ResourceID  *int  `json:"resourceId,omitempty"`
	ResourceIDs []int `json:"resourceIds,omitempty"`
}

// ListCollections serves the collection list. A q parameter filters by
// substring search; a sort parameter reorders the stored list first.
func ListCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if by := r.URL.Query().Get("sort"); by != "" {
			d.Store.Sort(collections.SortKey(by))
		}
		writeJSON(w, http.StatusOK, d.Store.Search(r.URL.Query().Get("q")))
	}
}

// RecentCollections serves the most recently updated collections.
func RecentCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Recent())
	}
}

// PinnedCollections serves the pinned collections in stored order.
func PinnedCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Pinned())
	}
}

// CreateCollection creates a collection from the request body.
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		id, err := d.Store.Add(req.Name, req.Description, collections.CreateOptions{
			Color:  req.Color,
			Tags:   req.Tags,
			Pinned: req.Pinned,
		})
		if err != nil {
			if errors.Is(err, domain.ErrEmptyName) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		c, _ := d.Store.Get(id)
		writeJSON(w, http.StatusCreated, c)
	}
}

// GetCollection serves one collection by id.
func GetCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := d.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// UpdateCollection replaces a collection's editable fields.
func UpdateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		existing, ok := d.Store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		var req updateCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, domain.ErrEmptyName.Error())
			return
		}

		next := *existing
		next.Name = req.Name
		next.Description = req.Description
		next.Color = req.Color
		next.Tags = req.Tags
		d.Store.Update(next)

		c, _ := d.Store.Get(id)
		writeJSON(w, http.StatusOK, c)
	}
}

// DeleteCollection removes a collection; unknown ids still 204.
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Store.Remove(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddCollectionItems adds one resource ({resourceId}) or a batch
// ({resourceIds}) to a collection and returns the updated collection.
func AddCollectionItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Get(id); !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		var req addItemsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		switch {
		case len(req.ResourceIDs) > 0:
			d.Store.AddItems(id, req.ResourceIDs)
		case req.ResourceID != nil:
			d.Store.AddItem(id, *req.ResourceID)
		default:
			writeError(w, http.StatusBadRequest, "resourceId or resourceIds required")
			return
		}

		c, _ := d.Store.Get(id)
		writeJSON(w, http.StatusOK, c)
	}
}

// RemoveCollectionItem removes one resource from a collection.
func RemoveCollectionItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Get(id); !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		rid, err := strconv.Atoi(chi.URLParam(r, "rid"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "resource id must be an integer")
			return
		}

		d.Store.RemoveItem(id, rid)
		w.WriteHeader(http.StatusNoContent)
	}
}

// TogglePin flips a collection's pinned flag.
func TogglePin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Get(id); !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		d.Store.TogglePin(id)
		c, _ := d.Store.Get(id)
		writeJSON(w, http.StatusOK, c)
	}
}

// DuplicateCollection copies a collection under a fresh id.
func DuplicateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		newID := d.Store.Duplicate(chi.URLParam(r, "id"))
		if newID == "" {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		c, _ := d.Store.Get(newID)
		writeJSON(w, http.StatusCreated, c)
	}
}

// CollectionStats reports size, last update, and a per-category count of
// the collection's resources, resolved through the catalog.
func CollectionStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, ok := d.Store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		st := d.Store.GetStats(id)
		for _, rid := range c.Items {
			if cat := d.Catalog.CategoryOf(rid); cat != "" {
				st.Categories[cat]++
			}
		}
		writeJSON(w, http.StatusOK, st)
	}
}
