package catalogfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kdbplan/kdbplan/internal/domain"
)

const sampleCatalog = `---
currentYear: 2024
courses:
  - code: GB10101
    name: Programming I
    credit: 2
    year: 1
    instructor: Sato
    terms:
      - codes: [10, 20]
        slots: [[0, 0], [0, 1]]
      - codes: [30]
        slots: [[2, 3], [9, 9], [1]]
  - code: " "
    name: blank code
    credit: 1
  - code: GA15211
    name: Linear Algebra
    credit: -1
  - code: FA01111
    name: Seminar
    credit: 1.5
    year: 2
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	file, err := NewLoader(writeCatalog(t, sampleCatalog)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if file.CurrentYear != 2024 {
		t.Errorf("CurrentYear = %d, want 2024", file.CurrentYear)
	}
	if len(file.Courses) != 4 {
		t.Fatalf("Load() returned %d courses, want 4", len(file.Courses))
	}
	if got := file.Courses[0].Terms[0].Slots; len(got) != 2 {
		t.Errorf("slots = %v, want 2 pairs", got)
	}
}

func TestLoaderLoadErrors(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load(); err == nil {
		t.Error("Load() on missing file error = nil, want error")
	}

	if _, err := NewLoader(writeCatalog(t, "courses: [unterminated")).Load(); err == nil {
		t.Error("Load() on invalid yaml error = nil, want error")
	}
}

func TestMapperMap(t *testing.T) {
	file, err := NewLoader(writeCatalog(t, sampleCatalog)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap, err := NewMapper().Map(file)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if snap.Len() != 2 {
		t.Fatalf("Map() kept %d courses, want 2 (blank code and negative credit skipped)", snap.Len())
	}

	c, ok := snap.Course("GB10101")
	if !ok {
		t.Fatal("GB10101 missing from snapshot")
	}
	if c.Instructor != "Sato" || c.Credit != 2 || c.Year != 1 {
		t.Errorf("GB10101 = %+v", c)
	}
	if len(c.Terms) != 2 {
		t.Fatalf("GB10101 has %d term groups, want 2", len(c.Terms))
	}
	if !c.Terms[0].Timeslots[0][0] || !c.Terms[0].Timeslots[0][1] {
		t.Error("first group should occupy Monday periods 0 and 1")
	}
	if got := domain.CountTimeslots(c.Terms[1].Timeslots); got != 1 {
		t.Errorf("second group occupies %d slots, want 1 (out of range and malformed slots dropped)", got)
	}
}

func TestMapperDefaultsCurrentYear(t *testing.T) {
	m := NewMapper()
	m.now = func() time.Time { return time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC) }

	snap, err := m.Map(&File{Courses: []CourseProps{{Code: "X1", Credit: 1}}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if snap.CurrentYear() != 2025 {
		t.Errorf("CurrentYear() = %d, want 2025", snap.CurrentYear())
	}
}

func TestMapperNoCourses(t *testing.T) {
	tests := []struct {
		name string
		file *File
	}{
		{"nil file", nil},
		{"empty", &File{}},
		{"all invalid", &File{Courses: []CourseProps{{Code: ""}, {Code: "A", Credit: -2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMapper().Map(tt.file); !errors.Is(err, ErrNoCourses) {
				t.Errorf("Map() error = %v, want ErrNoCourses", err)
			}
		})
	}
}
