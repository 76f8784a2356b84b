package pintable

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sheet is a header plus rows read from a CSV file. Cells are trimmed and
// rows are padded to the header width.
type Sheet struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// ReadSheetFile opens path and reads it as a CSV sheet.
func ReadSheetFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pin table")
	}
	defer f.Close()
	return ReadSheet(f)
}

// ReadSheet reads CSV data whose first record is the header.
func ReadSheet(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New("csv has no header row")
	}

	s := &Sheet{index: make(map[string]int)}
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		s.Header = append(s.Header, h)
		if _, dup := s.index[h]; !dup {
			s.index[h] = i
		}
	}
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := make([]string, len(s.Header))
		for i := range row {
			if i < len(rec) {
				row[i] = strings.TrimSpace(rec[i])
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// NumRows returns the number of data rows.
func (s *Sheet) NumRows() int { return len(s.Rows) }

// NumCols returns the number of header columns.
func (s *Sheet) NumCols() int { return len(s.Header) }

// ColumnIndex returns the index of the named column.
func (s *Sheet) ColumnIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Column returns every cell of the named column.
func (s *Sheet) Column(name string) ([]string, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// ColumnInt returns the named column parsed as integers. Blank cells read
// as -1, the invalid-location sentinel.
func (s *Sheet) ColumnInt(name string) ([]int, error) {
	cells, ok := s.Column(name)
	if !ok {
		return nil, errors.Errorf("column %q not found", name)
	}
	out := make([]int, len(cells))
	for i, c := range cells {
		if c == "" {
			out[i] = -1
			continue
		}
		v, err := strconv.Atoi(c)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q row %d", name, i+2)
		}
		out[i] = v
	}
	return out, nil
}
