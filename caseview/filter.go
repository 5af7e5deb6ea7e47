package caseview

import (
	"strings"

	"caseviewer-backend/models"
)

// FormatOptions controls how display cells are rendered
type FormatOptions struct {
	LinkStyle LinkStyle
}

// Cell is one formatted value of a display row
type Cell struct {
	Key   models.FieldKey `json:"key"`
	Value string          `json:"value"`
}

// DisplayRow is the formatted projection of a record onto the mapped fields,
// in canonical order. Flagged lists fields whose cell text could not be parsed.
type DisplayRow struct {
	Cells   []Cell            `json:"cells"`
	Flagged []models.FieldKey `json:"flagged,omitempty"`
}

// Get returns the formatted value for key
func (r DisplayRow) Get(key models.FieldKey) (string, bool) {
	for _, c := range r.Cells {
		if c.Key == key {
			return c.Value, true
		}
	}
	return "", false
}

// Values returns the cell values in column order
func (r DisplayRow) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Value
	}
	return out
}

// Column describes one column of the display table
type Column struct {
	Key   models.FieldKey `json:"key"`
	Label string          `json:"label"`
}

// DisplayColumns lists the mapped fields in canonical order
func DisplayColumns(m Mapping) []Column {
	cols := make([]Column, 0, len(models.DisplayOrder))
	for _, key := range models.DisplayOrder {
		if m.Has(key) {
			cols = append(cols, Column{Key: key, Label: FieldLabel(key)})
		}
	}
	return cols
}

// ApplyFilters returns the display rows of every record satisfying all criteria.
// The table is never modified.
func ApplyFilters(t *Table, m Mapping, c Criteria, opts FormatOptions) []DisplayRow {
	rows := make([]DisplayRow, 0)
	for _, rec := range t.Records {
		if Matches(t, m, rec, c) {
			rows = append(rows, Project(t, m, rec, opts))
		}
	}
	return rows
}

// Matches reports whether rec satisfies every predicate of c.
// A predicate on a field the mapping lacks is skipped.
func Matches(t *Table, m Mapping, rec Record, c Criteria) bool {
	if !matchChoice(t, m, rec, models.FieldCaseStatus, c.status) ||
		!matchChoice(t, m, rec, models.FieldCourtSystem, c.court) ||
		!matchChoice(t, m, rec, models.FieldCaseType, c.caseType) {
		return false
	}

	if c.hasMinAmount && m.Has(models.FieldJudgmentAmount) {
		raw, _ := t.Field(rec, m, models.FieldJudgmentAmount)
		// blank and unparseable amounts compare as zero
		if ParseAmount(raw).Value < c.minAmount {
			return false
		}
	}

	if c.DateFilterActive() && m.Has(models.FieldEntryDate) {
		raw, _ := t.Field(rec, m, models.FieldEntryDate)
		d := ParseDate(raw)
		if !d.Known() {
			return false
		}
		if c.hasStart && d.Time.Before(c.start) {
			return false
		}
		if c.hasEnd && d.Time.After(c.end) {
			return false
		}
	}

	return true
}

func matchChoice(t *Table, m Mapping, rec Record, key models.FieldKey, want string) bool {
	if want == "" || !m.Has(key) {
		return true
	}
	got, _ := t.Field(rec, m, key)
	return strings.EqualFold(strings.TrimSpace(got), want)
}

// Project formats the mapped fields of rec
func Project(t *Table, m Mapping, rec Record, opts FormatOptions) DisplayRow {
	row := DisplayRow{Cells: make([]Cell, 0, len(models.DisplayOrder))}

	for _, key := range models.DisplayOrder {
		if !m.Has(key) {
			continue
		}
		raw, _ := t.Field(rec, m, key)

		var value string
		switch key {
		case models.FieldJudgmentAmount:
			a := ParseAmount(raw)
			if a.Known() {
				value = FormatCurrency(a.Value)
			} else if a.State == Unparseable {
				row.Flagged = append(row.Flagged, key)
			}
		case models.FieldEntryDate:
			d := ParseDate(raw)
			value = d.ISO()
			if d.State == Unparseable {
				row.Flagged = append(row.Flagged, key)
			}
		case models.FieldCaseLink:
			value = FormatLink(raw, opts.LinkStyle)
		default:
			value = strings.TrimSpace(raw)
		}

		row.Cells = append(row.Cells, Cell{Key: key, Value: value})
	}

	return row
}
