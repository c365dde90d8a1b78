package handlers

import (
	"net/http"

	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
)

type memoHeadersRequest struct {
	Headers []string `json:"headers" validate:"required,max=64,dive,max=200"`
}

type memoHeadersResponse struct {
	Headers []string `json:"headers"`
}

// UpdateMemoHeaders replaces the memo column headers
func UpdateMemoHeaders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req memoHeadersRequest
		if err := decodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		d.Engine.UpdateMemoHeaders(r.Context(), req.Headers)
		respond.JSON(w, http.StatusOK, memoHeadersResponse{
			Headers: d.Engine.Document().MemoColumnHeaders,
		})
	}
}
