package handlers

import (
	"net/http"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
)

type exportResponse struct {
	Codes []string `json:"codes"`
	URL   string   `json:"url"`
}

// Export returns the bookmarked codes and the hand-off URL built from them
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, exportResponse{
			Codes: d.Engine.ExportReferences(),
			URL:   d.Engine.ExportURL(d.ExportBaseURL),
		})
	}
}
