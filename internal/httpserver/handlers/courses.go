package handlers

import (
	"net/http"
	"strings"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/domain"
	"github.com/kdbplan/kdbplan/internal/httpserver/deps"
	"github.com/kdbplan/kdbplan/internal/httpserver/respond"
	"github.com/kdbplan/kdbplan/internal/logger"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

type courseHit struct {
	*domain.Course
	Score      float64 `json:"score"`
	Bookmarked bool    `json:"bookmarked"`
	Classroom  string  `json:"classroom,omitempty"`
}

type coursesResponse struct {
	Total   int         `json:"total"`
	Results []courseHit `json:"results"`
}

// Courses searches the catalog.
//
//	q          keyword, code prefix or name words
//	term       only courses offered in that term
//	bookmarked only bookmarked courses
//	fits       only courses that fit the free slots of term's timetable
//	limit      result cap, 50 by default
func Courses(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := queryInt(r, "term")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		bookmarked, err := queryBool(r, "bookmarked")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		fitsFree, err := queryBool(r, "fits")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		opts := catalog.Options{
			Keyword:  strings.TrimSpace(r.URL.Query().Get("q")),
			TermCode: term,
			Limit:    defaultSearchLimit,
		}
		if limit != nil && *limit > 0 {
			opts.Limit = min(*limit, maxSearchLimit)
		}

		doc := d.Engine.Document()
		if bookmarked {
			opts.Bookmarked = doc.Has
		}
		if fitsFree {
			if term == nil {
				respond.Error(w, http.StatusBadRequest, "fits requires term")
				return
			}
			occupied := d.Engine.Timetable(*term).Timeslots
			opts.FitsIn = &occupied
		}

		results := catalog.Search(d.Catalog.Snapshot(), opts)
		hits := make([]courseHit, 0, len(results))
		for _, res := range results {
			room, _ := d.Classrooms.Get(res.Course.Code)
			hits = append(hits, courseHit{
				Course:     res.Course,
				Score:      res.Score,
				Bookmarked: doc.Has(res.Course.Code),
				Classroom:  room,
			})
		}

		d.Logger.Debug("course search",
			logger.String("q", opts.Keyword),
			logger.Int("results", len(hits)))
		respond.JSON(w, http.StatusOK, coursesResponse{Total: len(hits), Results: hits})
	}
}
