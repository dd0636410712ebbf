package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/toolshelf/shelf/internal/httpserver/deps"
	"github.com/toolshelf/shelf/internal/storage"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type statsResponse struct {
	Status      string                     `json:"status"`
	Resources   int                        `json:"resources"`
	Categories  int                        `json:"categories"`
	Collections int                        `json:"collections"`
	Pinned      int                        `json:"pinned"`
	TotalViews  int                        `json:"total_views"`
	Unread      int                        `json:"unread"`
	Bookmarks   int                        `json:"bookmarks"`
	Components  map[string]componentStatus `json:"components"`
}

// Stats summarises the service: catalog and collection counts plus the
// health of the catalog feed and the storage backend.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceCount := d.Catalog.Count()
		lastReload := d.Catalog.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:         resourceCount > 0,
				Loaded:     &resourceCount,
				LastReload: lastReloadStr,
			},
			"storage": checkStorage(d),
		}

		writeJSON(w, http.StatusOK, statsResponse{
			Status:      overallStatus(components),
			Resources:   resourceCount,
			Categories:  len(d.Catalog.Categories()),
			Collections: d.Store.Count(),
			Pinned:      len(d.Store.Pinned()),
			TotalViews:  d.Views.Total(),
			Unread:      d.Read.UnreadCount(),
			Bookmarks:   d.Bookmarks.Count(),
			Components:  components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if c, exists := components["catalog"]; exists && !c.OK {
		return "degraded" // catalog empty, nothing to browse
	}
	if s, exists := components["storage"]; exists && !s.OK {
		return "degraded" // collections held in memory only
	}
	return "ok"
}

func checkStorage(d deps.Deps) componentStatus {
	if d.Storage == nil {
		return componentStatus{
			OK:    false,
			Mode:  "none",
			Error: "adapter not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := storage.Ping(ctx, d.Storage); err != nil {
		return componentStatus{
			OK:    false,
			Mode:  "degraded",
			Error: err.Error(),
		}
	}

	return componentStatus{OK: true, Mode: "optimal"}
}
