package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/handlers"
	"github.com/kdbplan/kdbplan/internal/httpserver/mw"
)

func init() { Register(registerClassrooms) }

func registerClassrooms(r chi.Router, d deps.Deps) {
	api := local(r, d)

	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.ImportBurst,
		RefillPerIPPerMin: d.ImportPerMin,
		MaxEntries:        1024,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})

	api.With(limit).Post("/api/classrooms", handlers.ImportClassrooms(d))
	api.Get("/api/classrooms", handlers.Classrooms(d))
	api.Delete("/api/classrooms", handlers.ClearClassrooms(d))
	api.Get("/api/classrooms/{code}", handlers.Classroom(d))
}
