package catalog

import (
	"time"

	"github.com/kdbplan/kdbplan/internal/domain"
)

// Snapshot is one immutable load of the course catalog.
// A reload builds a new Snapshot; the old one is never modified, so a
// pointer to it is a stable identity for caching derived views.
type Snapshot struct {
	currentYear int
	courses     map[string]*domain.Course // code -> course
	order       []string                  // codes in catalog order
	loadedAt    time.Time
}

// NewSnapshot builds a snapshot. The first course wins when a code repeats.
func NewSnapshot(currentYear int, courses []*domain.Course) *Snapshot {
	s := &Snapshot{
		currentYear: currentYear,
		courses:     make(map[string]*domain.Course, len(courses)),
		order:       make([]string, 0, len(courses)),
		loadedAt:    time.Now(),
	}
	for _, c := range courses {
		if c == nil || c.Code == "" {
			continue
		}
		if _, dup := s.courses[c.Code]; dup {
			continue
		}
		s.courses[c.Code] = c
		s.order = append(s.order, c.Code)
	}
	return s
}

// Course looks up a course by code
func (s *Snapshot) Course(code string) (*domain.Course, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.courses[code]
	return c, ok
}

// CurrentYear is the academic year the catalog describes
func (s *Snapshot) CurrentYear() int {
	if s == nil {
		return 0
	}
	return s.currentYear
}

// Codes returns all codes in catalog order
func (s *Snapshot) Codes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of courses
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}
