package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "prodboard/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a raw source table: a header row and ragged data rows.
type Table struct {
	Source string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table from raw rows. When headerless is false the first
// row becomes the header, trimmed and renamed through rename.
func NewTable(source string, rows [][]string, headerless bool, rename map[string]string) *Table {
	t := &Table{Source: source, index: make(map[string]int)}
	if headerless || len(rows) == 0 {
		t.Rows = rows
		return t
	}

	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.TrimSpace(h)
		if renamed, ok := rename[name]; ok {
			name = renamed
		}
		t.Header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	t.Rows = rows[1:]
	return t
}

// Require fails with a MissingColumnError for the first absent column.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if _, ok := t.index[c]; !ok {
			return &apperrors.MissingColumnError{Source: t.Source, Column: c}
		}
	}
	return nil
}

// Has reports whether the header carries column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Cell returns the trimmed cell of row under column, "" when the row is
// short or the column is absent.
func (t *Table) Cell(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseCSV reads CSV content. A UTF-8 BOM is stripped and rows may have
// differing field counts.
func ParseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// ParseXLSX reads the rows of one sheet of a workbook; the first sheet when
// sheet is empty.
func ParseXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
