package catalog

import (
	"sort"

	"github.com/kdbplan/kdbplan/internal/domain"
)

// Options configures Search. The zero value returns every course in catalog order.
type Options struct {
	// Keyword matches course codes by prefix and names by substring.
	Keyword string

	// TermCode restricts results to courses offered in that term.
	TermCode *int

	// Bookmarked, when set, keeps only courses for which it returns true.
	Bookmarked func(code string) bool

	// FitsIn keeps only courses that do not overlap these occupied slots.
	// With TermCode set only that term's group is checked; otherwise any
	// group that fits is enough.
	FitsIn *domain.TimeslotTable

	// Limit caps the number of results when > 0.
	Limit int
}

// Result is one matched course
type Result struct {
	Course *domain.Course `json:"course"`
	Score  float64        `json:"score"`
}

// Search filters and ranks the snapshot's courses.
// Ties keep catalog order, and without a keyword catalog order is the ranking.
func Search(s *Snapshot, opts Options) []Result {
	if s == nil {
		return []Result{}
	}

	q := ParseQuery(opts.Keyword)
	results := make([]Result, 0)

	for _, code := range s.order {
		c := s.courses[code]

		if opts.Bookmarked != nil && !opts.Bookmarked(code) {
			continue
		}
		if opts.TermCode != nil {
			if _, ok := c.GroupForTerm(*opts.TermCode); !ok {
				continue
			}
		}
		if opts.FitsIn != nil && !fits(c, opts.TermCode, *opts.FitsIn) {
			continue
		}

		score := 0.0
		if !q.Empty() {
			score = Score(q, c)
			if score == 0 {
				continue
			}
		}
		results = append(results, Result{Course: c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

func fits(c *domain.Course, term *int, occupied domain.TimeslotTable) bool {
	if term != nil {
		g, ok := c.GroupForTerm(*term)
		return ok && !g.Timeslots.Overlaps(occupied)
	}
	for i := range c.Terms {
		if !c.Terms[i].Timeslots.Overlaps(occupied) {
			return true
		}
	}
	return len(c.Terms) == 0
}
