package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toolshelf/shelf/internal/collections"
	"github.com/toolshelf/shelf/internal/domain"
	"github.com/toolshelf/shelf/internal/httpserver/deps"
)

type shareRequest struct {
	ExpiryDays int    `json:"expiryDays,omitempty"`
	Password   string `json:"password,omitempty"`
}

type shareResponse struct {
	ShareID   string `json:"shareId"`
	URL       string `json:"url"`
	Protected bool   `json:"protected"`
}

// sharedCollection is the public view of a shared collection. The
// password never leaves the server.
type sharedCollection struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Items       []int              `json:"items"`
	UpdatedAt   int64              `json:"updatedAt"`
	Color       string             `json:"color,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Resources   []*domain.Resource `json:"resources"`
}

type protectedResponse struct {
	Protected bool `json:"protected"`
}

// ShareCollection publishes a collection and returns its share link.
func ShareCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req shareRequest
		if !decodeBody(w, r, &req) {
			return
		}

		shareID := d.Store.MakePublic(id, collections.ShareOptions{
			ExpiryDays: req.ExpiryDays,
			Password:   req.Password,
		})
		if shareID == "" {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		url, _ := d.Store.ShareLink(id)
		writeJSON(w, http.StatusOK, shareResponse{
			ShareID:   shareID,
			URL:       url,
			Protected: req.Password != "",
		})
	}
}

// UnshareCollection unpublishes a collection; the share id is retained
// so republishing yields the same link.
func UnshareCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Get(id); !ok {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}

		d.Store.MakePrivate(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SharedCollectionPage serves a shared collection by its share id with
// the member resources resolved from the catalog. Password-protected
// shares answer 401 with protected:true until ?pw= matches.
func SharedCollectionPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := d.Store.GetByShareID(chi.URLParam(r, "shareId"))
		if !ok {
			writeError(w, http.StatusNotFound, "shared collection not found")
			return
		}

		if c.SharePassword != "" && r.URL.Query().Get("pw") != c.SharePassword {
			writeJSON(w, http.StatusUnauthorized, protectedResponse{Protected: true})
			return
		}

		resources := make([]*domain.Resource, 0, len(c.Items))
		for _, rid := range c.Items {
			if res, found := d.Catalog.Get(rid); found {
				resources = append(resources, res)
			}
		}

		writeJSON(w, http.StatusOK, sharedCollection{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Items:       c.Items,
			UpdatedAt:   c.UpdatedAt,
			Color:       c.Color,
			Tags:        c.Tags,
			Resources:   resources,
		})
	}
}
