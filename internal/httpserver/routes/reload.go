package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/handlers"
)

func init() { Register(registerReload) }

func registerReload(r chi.Router, d deps.Deps) {
	local(r, d).Post("/api/reload", handlers.Reload(d))
}
