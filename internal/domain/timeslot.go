package domain

const (
	// DaysPerWeek covers Monday to Saturday.
	DaysPerWeek = 6
	// PeriodsPerDay is the number of class periods in a day.
	PeriodsPerDay = 8
)

// TimeslotTable is a day × period occupancy grid.
type TimeslotTable [DaysPerWeek][PeriodsPerDay]bool

// SubjectTable holds, per day × period cell, the codes of the courses
// occupying it.
type SubjectTable [DaysPerWeek][PeriodsPerDay][]string

// NewTimeslotTable allocates an empty occupancy grid.
func NewTimeslotTable() TimeslotTable {
	return TimeslotTable{}
}

// NewSubjectTable allocates a subject grid with an empty, non-nil list in
// every cell so that it serializes as [] rather than null.
func NewSubjectTable() SubjectTable {
	var t SubjectTable
	for day := range t {
		for period := range t[day] {
			t[day][period] = []string{}
		}
	}
	return t
}

// InRange reports whether day and period address a cell of the grid.
func InRange(day, period int) bool {
	return day >= 0 && day < DaysPerWeek && period >= 0 && period < PeriodsPerDay
}

// CountTimeslots returns the number of occupied cells.
func CountTimeslots(t TimeslotTable) int {
	n := 0
	for day := range t {
		for period := range t[day] {
			if t[day][period] {
				n++
			}
		}
	}
	return n
}

// Overlaps reports whether both grids occupy at least one common cell.
func (t TimeslotTable) Overlaps(other TimeslotTable) bool {
	for day := range t {
		for period := range t[day] {
			if t[day][period] && other[day][period] {
				return true
			}
		}
	}
	return false
}
