package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kdbplan/kdbplan/internal/domain"
	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
	"github.com/kdbplan/kdbplan/internal/planner"
)

type bookmarkResponse struct {
	Code  string       `json:"code"`
	Entry domain.Entry `json:"entry"`
	// ColumnMemos holds exactly one memo per memo column.
	ColumnMemos []string `json:"columnMemos"`
}

type listResponse struct {
	*domain.Document
	ColumnMemos map[string][]string `json:"columnMemos"`
}

func newBookmarkResponse(d deps.Deps, code string, entry domain.Entry) bookmarkResponse {
	columns := d.Engine.Document().MemoColumnCount()
	return bookmarkResponse{Code: code, Entry: entry, ColumnMemos: entry.MemosFor(columns)}
}

type toggleResponse struct {
	Code string `json:"code"`
	planner.ToggleResult
}

type patchRequest struct {
	Year  *int     `json:"year"`
	TA    *bool    `json:"ta"`
	Memos []string `json:"memos" validate:"omitempty,max=64,dive,max=10000"`
}

type clearResponse struct {
	Cleared bool `json:"cleared"`
}

// ListBookmarks returns the whole bookmark document
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := d.Engine.Document()
		columns := doc.MemoColumnCount()
		memos := make(map[string][]string, len(doc.Entries))
		for code, entry := range doc.Entries {
			memos[code] = entry.MemosFor(columns)
		}
		respond.JSON(w, http.StatusOK, listResponse{Document: doc, ColumnMemos: memos})
	}
}

// GetBookmark returns one entry, 404 when the code is not bookmarked
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		entry, ok := d.Engine.GetBookmark(code)
		if !ok {
			respond.Error(w, http.StatusNotFound, "not bookmarked: "+code)
			return
		}
		respond.JSON(w, http.StatusOK, newBookmarkResponse(d, code, entry))
	}
}

// ToggleBookmark adds or removes a bookmark. Unknown courses give 404.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		res := d.Engine.ToggleBookmark(r.Context(), code)
		if !res.Changed {
			respond.Error(w, http.StatusNotFound, "unknown course: "+code)
			return
		}
		respond.JSON(w, http.StatusOK, toggleResponse{Code: code, ToggleResult: res})
	}
}

// UpdateBookmark patches the year, TA flag or memos of an entry
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		var req patchRequest
		if err := decodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		patch := planner.EntryPatch{Year: req.Year, TA: req.TA, Memos: req.Memos}
		if patch.Empty() {
			respond.Error(w, http.StatusBadRequest, "nothing to update")
			return
		}

		if !d.Engine.UpdateBookmark(r.Context(), code, patch) {
			respond.Error(w, http.StatusNotFound, "not bookmarked: "+code)
			return
		}

		entry, _ := d.Engine.GetBookmark(code)
		respond.JSON(w, http.StatusOK, newBookmarkResponse(d, code, entry))
	}
}

// ClearBookmarks removes every bookmark. The request must carry confirm=true;
// without it the prompt is returned and nothing changes.
func ClearBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, err := queryBool(r, "confirm")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		approve := planner.ConfirmFunc(func(string) bool { return confirmed })
		if !d.Engine.Clear(r.Context(), approve) {
			respond.Error(w, http.StatusPreconditionRequired, planner.ClearPrompt+" Repeat with confirm=true.")
			return
		}
		respond.JSON(w, http.StatusOK, clearResponse{Cleared: true})
	}
}
