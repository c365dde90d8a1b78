package catalogfile

import (
	"errors"
	"strings"
	"time"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/domain"
)

// ErrNoCourses is returned when the file holds no usable course
var ErrNoCourses = errors.New("no valid courses found in catalog file")

// Mapper converts the catalog file into a catalog snapshot
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// Map converts a parsed file into an immutable snapshot.
// Courses without a code or with a negative credit are skipped, as are
// slots outside the week grid.
func (m *Mapper) Map(file *File) (*catalog.Snapshot, error) {
	if file == nil {
		return nil, ErrNoCourses
	}

	courses := make([]*domain.Course, 0, len(file.Courses))
	for _, props := range file.Courses {
		code := strings.TrimSpace(props.Code)
		if code == "" || props.Credit < 0 {
			continue
		}

		course := &domain.Course{
			Code:        code,
			Name:        strings.TrimSpace(props.Name),
			Credit:      props.Credit,
			Year:        props.Year,
			Terms:       make([]domain.TermGroup, 0, len(props.Terms)),
			Methods:     props.Methods,
			Instructor:  props.Instructor,
			Abstract:    props.Abstract,
			Note:        props.Note,
			SyllabusURL: props.Syllabus,
		}
		for _, term := range props.Terms {
			course.Terms = append(course.Terms, mapTerm(term))
		}
		courses = append(courses, course)
	}

	if len(courses) == 0 {
		return nil, ErrNoCourses
	}

	year := file.CurrentYear
	if year == 0 {
		year = domain.AcademicYear(m.now())
	}
	return catalog.NewSnapshot(year, courses), nil
}

func mapTerm(term TermProps) domain.TermGroup {
	codes := make([]int, len(term.Codes))
	copy(codes, term.Codes)

	table := domain.NewTimeslotTable()
	for _, slot := range term.Slots {
		if len(slot) != 2 || !domain.InRange(slot[0], slot[1]) {
			continue
		}
		table[slot[0]][slot[1]] = true
	}
	return domain.TermGroup{Codes: codes, Timeslots: table}
}
