package models

import "time"

// FieldKey identifies a semantic case attribute resolved from free-text sheet headers
type FieldKey string

const (
	FieldCaseNumber     FieldKey = "case_number"
	FieldCaseStatus     FieldKey = "case_status"
	FieldJudgmentAmount FieldKey = "judgment_amount"
	FieldEntryDate      FieldKey = "entry_date"
	FieldCourtSystem    FieldKey = "court_system"
	FieldCaseType       FieldKey = "case_type"
	FieldCaseLink       FieldKey = "case_link"
	FieldAddress        FieldKey = "address"
	FieldPlaintiff      FieldKey = "plaintiff"
)

// DisplayOrder is the canonical column order of a display row
var DisplayOrder = []FieldKey{
	FieldCaseNumber,
	FieldPlaintiff,
	FieldCaseStatus,
	FieldJudgmentAmount,
	FieldEntryDate,
	FieldCourtSystem,
	FieldCaseType,
	FieldAddress,
	FieldCaseLink,
}

// Sheet is a raw spreadsheet grid as delivered by a source.
// Rows[0] is the header row; every cell is plain text.
type Sheet struct {
	Rows      [][]string `json:"rows"`
	Source    string     `json:"source"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Headers returns the header row, or nil for an empty sheet
func (s *Sheet) Headers() []string {
	if s == nil || len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// DataRows returns every row after the header
func (s *Sheet) DataRows() [][]string {
	if s == nil || len(s.Rows) < 2 {
		return nil
	}
	return s.Rows[1:]
}
