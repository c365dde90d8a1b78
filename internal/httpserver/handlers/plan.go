package handlers

import (
	"net/http"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
)

// Plan returns the credit and memo rollup of all bookmarks
func Plan(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, d.Engine.Plan())
	}
}

// Timetable returns the occupancy grid of one term, ?term=N is required
func Timetable(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := queryInt(r, "term")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if term == nil {
			respond.Error(w, http.StatusBadRequest, "term is required")
			return
		}
		respond.JSON(w, http.StatusOK, d.Engine.Timetable(*term))
	}
}
