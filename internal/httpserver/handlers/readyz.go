package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Courses    *int   `json:"courses,omitempty"`
	Entries    *int   `json:"entries,omitempty"`
	Stale      *int   `json:"stale,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the catalog is loaded and the bookmark store
// reachable. Stale bookmarks are reported but never fail readiness.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"catalog":   catalogStatus(d),
			"storage":   storageStatus(r.Context(), d),
			"bookmarks": bookmarkStatus(d),
		}

		ready := components["catalog"].OK && components["storage"].OK
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(w, status, readyzResponse{Ready: ready, Components: components})
	}
}

func catalogStatus(d deps.Deps) componentStatus {
	count := d.Catalog.Count()
	lastReload := "never"
	if t := d.Catalog.LastReload(); !t.IsZero() {
		lastReload = t.Format(time.RFC3339)
	}
	return componentStatus{
		OK:         d.Catalog.Loaded() && count > 0,
		Courses:    &count,
		LastReload: lastReload,
	}
}

func storageStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.Redis == nil {
		return componentStatus{OK: true, Mode: d.Storage}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Redis.Ping(ctx); err != nil {
		d.Logger.Debugf("readyz: redis ping failed: %v", err)
		return componentStatus{OK: false, Mode: d.Storage, Error: "unreachable"}
	}
	return componentStatus{OK: true, Mode: d.Storage}
}

func bookmarkStatus(d deps.Deps) componentStatus {
	entries := len(d.Engine.Document().Entries)
	stale := len(d.Engine.UnresolvedBookmarks())
	return componentStatus{
		OK:      stale == 0,
		Entries: &entries,
		Stale:   &stale,
	}
}
