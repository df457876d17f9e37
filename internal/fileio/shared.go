package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Record is one data row keyed by header. Line is the 1-based row number in
// the source sheet, kept for error reporting.
type Record struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed cell value for header.
func (r Record) Get(header string) string {
	return strings.TrimSpace(r.Values[header])
}

// Table is a header row plus the non-empty rows under it.
type Table struct {
	Headers []string
	Rows    []Record
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ReadAny picks a reader by extension. headerRow is 1-based.
func ReadAny(r io.Reader, filename string, headerRow int) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// OpenFile reads a table from disk. The file is closed on every path.
func OpenFile(path string, headerRow int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadAny(f, path, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// pickHeader takes the header row and fills blanks with "Column N".
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\uFEFF"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// buildTable turns an array of rows into a Table, skipping rows that are
// entirely blank.
func buildTable(rows [][]string, headerRow int) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	if headerRow < 1 {
		headerRow = 1
	}
	headers := pickHeader(rows, headerRow)
	t := &Table{Headers: headers}
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		vals := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			vals[h] = v
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, Record{Line: r + 1, Values: vals})
	}
	return t
}
