package domain

import "time"

// Course is an immutable catalog entry for one offered course.
//
// It is NOT tied to the catalog file format. The catalog loader maps its
// input into this structure once per reload and nothing mutates it afterwards.
type Course struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// Code is the unique course number.
	// Example: GB10101
	Code string `json:"code"`

	// Name is the human readable course title.
	Name string `json:"name"`

	// ─────────────────────────────
	// Planning data
	// ─────────────────────────────

	// Credit is the non-negative credit value of the course.
	Credit float64 `json:"credit"`

	// Year is the academic year of study the course is intended for.
	Year int `json:"year"`

	// Terms lists the alternative scheduling groups in catalog order.
	Terms []TermGroup `json:"terms"`

	// ─────────────────────────────
	// Descriptive pass-through
	// ─────────────────────────────

	Methods     []string `json:"methods,omitempty"`
	Instructor  string   `json:"instructor,omitempty"`
	Abstract    string   `json:"abstract,omitempty"`
	Note        string   `json:"note,omitempty"`
	SyllabusURL string   `json:"syllabusUrl,omitempty"`
}

// TermGroup is one scheduling alternative: a set of interchangeable term
// codes and the weekly slots the course occupies under them.
type TermGroup struct {
	Codes     []int         `json:"codes"`
	Timeslots TimeslotTable `json:"timeslots"`
}

// HasTerm reports whether term is one of the group's codes.
func (g *TermGroup) HasTerm(term int) bool {
	for _, c := range g.Codes {
		if c == term {
			return true
		}
	}
	return false
}

// GroupForTerm returns the first group (by catalog order) whose code set
// contains term.
func (c *Course) GroupForTerm(term int) (*TermGroup, bool) {
	for i := range c.Terms {
		if c.Terms[i].HasTerm(term) {
			return &c.Terms[i], true
		}
	}
	return nil, false
}

// FirstTermCode returns the first term code of the first group, if any.
func (c *Course) FirstTermCode() (int, bool) {
	if len(c.Terms) == 0 || len(c.Terms[0].Codes) == 0 {
		return 0, false
	}
	return c.Terms[0].Codes[0], true
}

// AcademicYear returns the academic year t falls in. Academic years start in April.
func AcademicYear(t time.Time) int {
	if t.Month() < time.April {
		return t.Year() - 1
	}
	return t.Year()
}
