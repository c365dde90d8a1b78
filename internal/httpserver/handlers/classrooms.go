package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kdbplan/kdbplan/internal/classroom"
	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
	"github.com/kdbplan/kdbplan/internal/logger"
	"github.com/kdbplan/kdbplan/internal/utils"
)

// DefaultMaxUploadBytes caps the classroom workbook upload.
const DefaultMaxUploadBytes = 10 << 20

type classroomsResponse struct {
	Imported  bool       `json:"imported"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Subjects  int        `json:"subjects"`
}

type classroomResponse struct {
	Code      string `json:"code"`
	Classroom string `json:"classroom"`
}

func summary(l *classroom.Lookup) classroomsResponse {
	if l == nil {
		return classroomsResponse{}
	}
	at := l.UpdatedAt
	return classroomsResponse{Imported: true, UpdatedAt: &at, Subjects: len(l.Subjects)}
}

// ImportClassrooms reads the multipart "file" field as an xlsx workbook and
// replaces the classroom lookup. A rejected workbook leaves the lookup as it was.
func ImportClassrooms(d deps.Deps) http.HandlerFunc {
	maxBytes := d.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(w, http.StatusRequestEntityTooLarge, "workbook is too large")
				return
			}
			respond.Error(w, http.StatusBadRequest, "expected a multipart form with a file field")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, _, err := r.FormFile("file")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer utils.Close(file)

		l, err := d.Classrooms.Import(r.Context(), file)
		if err != nil {
			var ie *classroom.ImportError
			if errors.As(err, &ie) {
				respond.Error(w, http.StatusUnprocessableEntity, ie.Error())
				return
			}
			d.Logger.Error("classroom import failed", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "import failed")
			return
		}

		respond.JSON(w, http.StatusOK, summary(l))
	}
}

// Classrooms reports whether a lookup is loaded and when it was imported
func Classrooms(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, summary(d.Classrooms.Current()))
	}
}

// Classroom returns the classroom of one course
func Classroom(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		room, ok := d.Classrooms.Get(code)
		if !ok {
			respond.Error(w, http.StatusNotFound, "no classroom for "+code)
			return
		}
		respond.JSON(w, http.StatusOK, classroomResponse{Code: code, Classroom: room})
	}
}

// ClearClassrooms forgets the imported lookup
func ClearClassrooms(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Classrooms.Clear(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
