package classroom

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kdbplan/kdbplan/internal/logger"
	"github.com/kdbplan/kdbplan/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"科目名", " 教室 ", "科目番号"},
		[]interface{}{"Programming I", "3A204", "GB10101"},
		[]interface{}{"Linear Algebra", "", "GA15211"},
		[]interface{}{"no code", "1D201"},
		[]interface{}{"Programming I again", "3A205", "GB10101"},
		[]interface{}{"Seminar", "Online", " FA01111 "},
	)

	got, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"GB10101": "3A205",
		"FA01111": "Online",
	}, got)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T) *bytes.Buffer
		wantErr error
	}{
		{
			name: "missing classroom column",
			input: func(t *testing.T) *bytes.Buffer {
				return workbook(t, []interface{}{"科目番号", "科目名"}, []interface{}{"GB10101", "x"})
			},
			wantErr: ErrMissingColumns,
		},
		{
			name: "header only",
			input: func(t *testing.T) *bytes.Buffer {
				return workbook(t, []interface{}{"科目番号", "教室"})
			},
			wantErr: ErrNoRows,
		},
		{
			name: "empty sheet",
			input: func(t *testing.T) *bytes.Buffer {
				return workbook(t)
			},
			wantErr: ErrNoRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var importErr *ImportError
			require.True(t, errors.As(err, &importErr))
			assert.NotEmpty(t, importErr.Reason)
		})
	}
}

func TestParseRejectsNonWorkbook(t *testing.T) {
	_, err := Parse(strings.NewReader("科目番号,教室\nGB10101,3A204\n"))
	var importErr *ImportError
	require.True(t, errors.As(err, &importErr))
}

func TestServiceImportPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	svc := NewService(ctx, backend, logger.NewNop())
	fixed := time.Date(2024, time.April, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, ok := svc.UpdatedAt()
	assert.False(t, ok)

	l, err := svc.Import(ctx, workbook(t,
		[]interface{}{"科目番号", "教室"},
		[]interface{}{"GB10101", "3A204"},
	))
	require.NoError(t, err)
	assert.Equal(t, LookupVersion, l.Version)

	room, ok := svc.Get("GB10101")
	assert.True(t, ok)
	assert.Equal(t, "3A204", room)

	restored := NewService(ctx, backend, logger.NewNop())
	at, ok := restored.UpdatedAt()
	require.True(t, ok)
	assert.True(t, fixed.Equal(at))
	assert.Equal(t, map[string]string{"GB10101": "3A204"}, restored.Current().Subjects)
}

func TestServiceFailedImportKeepsState(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, store.NewMemoryBackend(), logger.NewNop())

	_, err := svc.Import(ctx, workbook(t,
		[]interface{}{"科目番号", "教室"},
		[]interface{}{"GB10101", "3A204"},
	))
	require.NoError(t, err)

	_, err = svc.Import(ctx, workbook(t, []interface{}{"科目番号"}))
	require.Error(t, err)

	room, ok := svc.Get("GB10101")
	assert.True(t, ok)
	assert.Equal(t, "3A204", room)
}

func TestServiceClear(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	svc := NewService(ctx, backend, logger.NewNop())

	_, err := svc.Import(ctx, workbook(t,
		[]interface{}{"科目番号", "教室"},
		[]interface{}{"GB10101", "3A204"},
	))
	require.NoError(t, err)

	svc.Clear(ctx)
	assert.Nil(t, svc.Current())
	_, err = backend.Get(ctx, store.ClassroomsKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceIgnoresInvalidStoredLookup(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()

	for _, raw := range []string{
		"not json",
		`{"version":2,"updatedAt":"2024-04-05T09:00:00Z","subjects":{}}`,
		`{"version":1,"updatedAt":"2024-04-05T09:00:00Z"}`,
	} {
		require.NoError(t, backend.Set(ctx, store.ClassroomsKey, raw))
		assert.Nil(t, NewService(ctx, backend, logger.NewNop()).Current(), "raw=%s", raw)
	}
}
