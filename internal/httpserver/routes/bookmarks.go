package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	api := local(r, d)

	api.Get("/api/bookmarks", handlers.ListBookmarks(d))
	api.Delete("/api/bookmarks", handlers.ClearBookmarks(d))
	api.Get("/api/bookmarks/{code}", handlers.GetBookmark(d))
	api.Patch("/api/bookmarks/{code}", handlers.UpdateBookmark(d))
	api.Post("/api/bookmarks/{code}/toggle", handlers.ToggleBookmark(d))
	api.Put("/api/memo-headers", handlers.UpdateMemoHeaders(d))
}
