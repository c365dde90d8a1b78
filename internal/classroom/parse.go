package classroom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kdbplan/kdbplan/internal/utils"
	"github.com/xuri/excelize/v2"
)

const (
	// HeaderCode is the column holding the course code
	HeaderCode = "科目番号"
	// HeaderClassroom is the column holding the free-text location
	HeaderClassroom = "教室"
)

var (
	ErrNoSheet        = errors.New("the workbook has no sheet")
	ErrMissingColumns = fmt.Errorf("the first row must contain the %q and %q columns", HeaderCode, HeaderClassroom)
	ErrNoRows         = errors.New("no course rows found")
)

// ImportError is a failed import with a message fit for the user
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

func importError(reason string, err error) *ImportError {
	return &ImportError{Reason: reason, Err: err}
}

// Parse reads the first sheet of an xlsx workbook and returns code -> classroom.
// Rows with an empty code or classroom are skipped; a repeated code keeps the last row.
func Parse(r io.Reader) (map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, importError("could not read the spreadsheet", err)
	}
	defer utils.Close(f)

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, importError("could not read the spreadsheet", ErrNoSheet)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, importError("could not read the first sheet", err)
	}
	if len(rows) == 0 {
		return nil, importError("the spreadsheet is empty", ErrNoRows)
	}

	codeIdx, roomIdx := headerIndex(rows[0])
	if codeIdx < 0 || roomIdx < 0 {
		return nil, importError("the spreadsheet has an unexpected layout", ErrMissingColumns)
	}

	subjects := make(map[string]string)
	for _, row := range rows[1:] {
		code := cell(row, codeIdx)
		room := cell(row, roomIdx)
		if code == "" || room == "" {
			continue
		}
		subjects[code] = room
	}

	if len(subjects) == 0 {
		return nil, importError("the spreadsheet holds no course data", ErrNoRows)
	}
	return subjects, nil
}

// headerIndex returns the column index of each required header, or -1
func headerIndex(header []string) (code, room int) {
	code, room = -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case HeaderCode:
			if code < 0 {
				code = i
			}
		case HeaderClassroom:
			if room < 0 {
				room = i
			}
		}
	}
	return code, room
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
