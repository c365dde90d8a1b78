package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/handlers"
)

func init() { Register(registerViews) }

func registerViews(r chi.Router, d deps.Deps) {
	api := local(r, d)

	api.Get("/api/plan", handlers.Plan(d))
	api.Get("/api/timetable", handlers.Timetable(d))
	api.Get("/api/export", handlers.Export(d))
	api.Get("/api/courses", handlers.Courses(d))
}
