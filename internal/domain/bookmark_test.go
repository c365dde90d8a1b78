package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry(2024)
	if e.Year != 2024 || e.TA {
		t.Errorf("NewEntry() = %+v, want year 2024 and ta false", e)
	}
	if !reflect.DeepEqual(e.Memos, []string{""}) {
		t.Errorf("NewEntry() memos = %q, want one empty memo", e.Memos)
	}
}

func TestEntryMemosFor(t *testing.T) {
	tests := []struct {
		name  string
		memos []string
		n     int
		want  []string
	}{
		{"pads missing trailing memos", []string{"a"}, 3, []string{"a", "", ""}},
		{"truncates extra memos", []string{"a", "b", "c"}, 2, []string{"a", "b"}},
		{"nil memos", nil, 2, []string{"", ""}},
		{"zero columns", []string{"a"}, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Entry{Memos: tt.memos}.MemosFor(tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MemosFor(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc := NewDocument()
	doc.Entries["GB10101"] = Entry{Year: 1, Memos: []string{"x"}}
	doc.MemoColumnHeaders = []string{"note"}

	clone := doc.Clone()
	if !reflect.DeepEqual(doc, clone) {
		t.Fatalf("Clone() = %+v, want %+v", clone, doc)
	}

	e := clone.Entries["GB10101"]
	e.Memos[0] = "changed"
	clone.MemoColumnHeaders[0] = "changed"
	delete(clone.Entries, "GB10101")

	if doc.Entries["GB10101"].Memos[0] != "x" {
		t.Error("mutating a clone's memo leaked into the original")
	}
	if doc.MemoColumnHeaders[0] != "note" {
		t.Error("mutating a clone's headers leaked into the original")
	}
	if !doc.Has("GB10101") {
		t.Error("deleting from a clone removed the original's entry")
	}
}

func TestDocumentCodesSorted(t *testing.T) {
	doc := NewDocument()
	for _, code := range []string{"GC2", "GA1", "GB3"} {
		doc.Entries[code] = NewEntry(1)
	}

	want := []string{"GA1", "GB3", "GC2"}
	if got := doc.Codes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Codes() = %v, want %v", got, want)
	}
}

func TestAcademicYear(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC), 2023},
		{time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), 2024},
	}

	for _, tt := range tests {
		if got := AcademicYear(tt.date); got != tt.want {
			t.Errorf("AcademicYear(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}
