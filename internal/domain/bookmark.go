package domain

import "sort"

// CurrentDocumentVersion is the only persisted schema version accepted on load.
const CurrentDocumentVersion = 2

// Entry is a student's annotation of one bookmarked course.
type Entry struct {
	// Year is the plan year the course is assigned to.
	Year int `json:"year"`

	// TA marks a teaching-assistant exemption: the course stays on the
	// timetable but is excluded from credit sums.
	TA bool `json:"ta"`

	// Memos holds one free-text value per memo column. It may be shorter
	// than the document's column count; missing values read as "".
	Memos []string `json:"memos"`
}

// NewEntry returns the default entry created when a course is bookmarked.
func NewEntry(year int) Entry {
	return Entry{Year: year, TA: false, Memos: []string{""}}
}

// Memo returns the memo at column i, or "" when the entry has none there.
func (e Entry) Memo(i int) string {
	if i < 0 || i >= len(e.Memos) {
		return ""
	}
	return e.Memos[i]
}

// MemosFor returns the memos reconciled to n columns.
func (e Entry) MemosFor(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = e.Memo(i)
	}
	return out
}

func (e Entry) clone() Entry {
	memos := make([]string, len(e.Memos))
	copy(memos, e.Memos)
	e.Memos = memos
	return e
}

// Document is the persisted aggregate root of the bookmark store.
//
// A published Document is treated as immutable: every mutation works on a
// Clone and replaces the published pointer, so pointer equality doubles as
// change detection.
type Document struct {
	Version           int              `json:"version"`
	Entries           map[string]Entry `json:"entries"`
	MemoColumnHeaders []string         `json:"memoColumnHeaders"`
}

// NewDocument returns an empty document at the current version.
func NewDocument() *Document {
	return &Document{
		Version:           CurrentDocumentVersion,
		Entries:           map[string]Entry{},
		MemoColumnHeaders: []string{},
	}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	entries := make(map[string]Entry, len(d.Entries))
	for code, entry := range d.Entries {
		entries[code] = entry.clone()
	}
	headers := make([]string, len(d.MemoColumnHeaders))
	copy(headers, d.MemoColumnHeaders)
	return &Document{
		Version:           d.Version,
		Entries:           entries,
		MemoColumnHeaders: headers,
	}
}

// MemoColumnCount is the number of active memo columns.
func (d *Document) MemoColumnCount() int {
	return len(d.MemoColumnHeaders)
}

// Has reports whether code is bookmarked.
func (d *Document) Has(code string) bool {
	_, ok := d.Entries[code]
	return ok
}

// Codes returns the bookmarked course codes in ascending order.
func (d *Document) Codes() []string {
	codes := make([]string, 0, len(d.Entries))
	for code := range d.Entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
