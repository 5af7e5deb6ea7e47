package caseview

import (
	"errors"

	"caseviewer-backend/models"
)

// ErrNoHeader is returned when a sheet has no header row
var ErrNoHeader = errors.New("sheet has no header row")

// Record is one data row, aligned with Table.Headers
type Record []string

// Table is a loaded sheet with normalized headers.
// It is read-only after construction.
type Table struct {
	Headers    []string
	RawHeaders []string
	Records    []Record
	index      map[string]int
}

// NewTable builds a table from a raw grid whose first row is the header.
// Short rows are padded with blanks and long rows truncated to the header width.
func NewTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoHeader
	}

	raw := append([]string(nil), rows[0]...)
	headers := make([]string, len(raw))
	index := make(map[string]int, len(raw))
	for i, h := range raw {
		headers[i] = NormalizeHeader(h)
		// duplicate names resolve to the rightmost column, matching MapColumns
		index[headers[i]] = i
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		copy(rec, row)
		records = append(records, rec)
	}

	return &Table{
		Headers:    headers,
		RawHeaders: raw,
		Records:    records,
		index:      index,
	}, nil
}

// NewTableFromSheet builds a table from a fetched sheet
func NewTableFromSheet(sheet *models.Sheet) (*Table, error) {
	if sheet == nil {
		return nil, ErrNoHeader
	}
	return NewTable(sheet.Rows)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Records)
}

// Value returns the cell of rec under the normalized column name
func (t *Table) Value(rec Record, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok || i >= len(rec) {
		return "", false
	}
	return rec[i], true
}

// Field returns the cell of rec for a mapped field key
func (t *Table) Field(rec Record, m Mapping, key models.FieldKey) (string, bool) {
	col, ok := m.Column(key)
	if !ok {
		return "", false
	}
	return t.Value(rec, col)
}
