package planner

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/domain"
)

// PlanView is the whole-plan rollup shown under the course plan table.
// Entries whose code is not in the catalog contribute nothing and are
// listed in Unresolved instead.
type PlanView struct {
	// YearCredits sums non-TA credits per plan year.
	YearCredits map[int]float64 `json:"yearCredits"`
	// YearCourses lists resolved codes per plan year, ascending.
	YearCourses map[int][]string `json:"yearCourses"`

	TotalCredits       float64 `json:"totalCredits"`
	CurrentYear        int     `json:"currentYear"`
	CurrentYearCredits float64 `json:"currentYearCredits"`

	// MemoTotals holds one numeric total per memo column.
	MemoTotals []float64 `json:"memoTotals"`
	// SlashTagCredits sums non-TA credits per slash tag.
	SlashTagCredits map[string]float64 `json:"slashTagCredits"`

	Unresolved []string `json:"unresolved"`
}

// TermView is the live timetable for one term of the catalog's current year.
type TermView struct {
	TermCode      int                  `json:"termCode"`
	Timeslots     domain.TimeslotTable `json:"timeslots"`
	Subjects      domain.SubjectTable  `json:"subjects"`
	Credits       float64              `json:"credits"`
	TimeslotCount int                  `json:"timeslotCount"`
}

// BuildPlan computes the plan rollup from scratch.
func BuildPlan(doc *domain.Document, snap *catalog.Snapshot) *PlanView {
	columns := doc.MemoColumnCount()
	v := &PlanView{
		YearCredits:     map[int]float64{},
		YearCourses:     map[int][]string{},
		CurrentYear:     snap.CurrentYear(),
		MemoTotals:      make([]float64, columns),
		SlashTagCredits: map[string]float64{},
		Unresolved:      []string{},
	}

	for _, code := range doc.Codes() {
		entry := doc.Entries[code]
		course, ok := snap.Course(code)
		if !ok {
			v.Unresolved = append(v.Unresolved, code)
			continue
		}

		memos := entry.MemosFor(columns)
		for i, memo := range memos {
			v.MemoTotals[i] += parseMemoNumber(memo)
		}

		v.YearCourses[entry.Year] = append(v.YearCourses[entry.Year], code)
		if entry.TA {
			continue
		}

		v.YearCredits[entry.Year] += course.Credit
		v.TotalCredits += course.Credit
		if entry.Year == v.CurrentYear {
			v.CurrentYearCredits += course.Credit
		}
		for _, tag := range SlashTags(memos) {
			v.SlashTagCredits[tag] += course.Credit
		}
	}

	return v
}

// BuildTermView computes the timetable for term. Only entries planned for
// the catalog's current year take part; a course contributes the first of
// its groups that contains term.
func BuildTermView(doc *domain.Document, snap *catalog.Snapshot, term int) *TermView {
	v := &TermView{
		TermCode:  term,
		Timeslots: domain.NewTimeslotTable(),
		Subjects:  domain.NewSubjectTable(),
	}
	year := snap.CurrentYear()

	for _, code := range doc.Codes() {
		entry := doc.Entries[code]
		if entry.Year != year {
			continue
		}
		course, ok := snap.Course(code)
		if !ok {
			continue
		}
		group, ok := course.GroupForTerm(term)
		if !ok {
			continue
		}

		for day := range group.Timeslots {
			for period := range group.Timeslots[day] {
				if group.Timeslots[day][period] {
					v.Timeslots[day][period] = true
					v.Subjects[day][period] = append(v.Subjects[day][period], code)
				}
			}
		}
		if !entry.TA {
			v.Credits += course.Credit
		}
		v.TimeslotCount += domain.CountTimeslots(group.Timeslots)
	}

	return v
}

// SlashTags returns the distinct trimmed lines starting with "/" across
// all memos, in first-seen order.
func SlashTags(memos []string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, memo := range memos {
		for _, line := range strings.Split(memo, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "/") {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			tags = append(tags, line)
		}
	}
	return tags
}

// leadingNumber matches the decimal number at the start of a memo.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseMemoNumber reads the number a memo starts with, so "3単位" counts
// as 3. Memos that do not start with a finite number count as 0.
func parseMemoNumber(memo string) float64 {
	num := leadingNumber.FindString(strings.TrimSpace(memo))
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
