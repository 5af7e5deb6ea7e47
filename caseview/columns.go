// Package caseview resolves free-text spreadsheet headers to case fields and
// filters the loaded rows into display-ready case rows.
package caseview

import (
	"fmt"
	"strings"

	"caseviewer-backend/models"
)

// Mapping resolves semantic field keys to normalized column names.
// A key that no header matched is absent.
type Mapping map[models.FieldKey]string

// Column returns the column mapped to key
func (m Mapping) Column(key models.FieldKey) (string, bool) {
	col, ok := m[key]
	return col, ok && col != ""
}

// Has reports whether key resolved to a column
func (m Mapping) Has(key models.FieldKey) bool {
	_, ok := m.Column(key)
	return ok
}

// Diagnostic records a field key that more than one header matched.
// The last candidate in header order is the one kept in the mapping.
type Diagnostic struct {
	Key        models.FieldKey `json:"key"`
	Candidates []string        `json:"candidates"`
	Chosen     string          `json:"chosen"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s matched %d columns (%s), using %q",
		d.Key, len(d.Candidates), strings.Join(d.Candidates, ", "), d.Chosen)
}

type columnRule struct {
	key   models.FieldKey
	match func(header string) bool
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// columnRules are evaluated in this order against every normalized header
var columnRules = []columnRule{
	{models.FieldCaseNumber, func(h string) bool {
		return strings.Contains(h, "case") && containsAny(h, "num", "number")
	}},
	{models.FieldCaseStatus, func(h string) bool { return strings.Contains(h, "status") }},
	{models.FieldJudgmentAmount, func(h string) bool { return containsAny(h, "amount", "judgment") }},
	{models.FieldEntryDate, func(h string) bool { return strings.Contains(h, "date") }},
	{models.FieldCourtSystem, func(h string) bool { return strings.Contains(h, "court") }},
	{models.FieldCaseType, func(h string) bool { return strings.Contains(h, "type") }},
	{models.FieldCaseLink, func(h string) bool { return containsAny(h, "link", "url") }},
	{models.FieldAddress, func(h string) bool { return strings.Contains(h, "address") }},
	{models.FieldPlaintiff, func(h string) bool { return containsAny(h, "plaintiff", "name_for") }},
}

// NormalizeHeader trims and lower-cases a header and replaces newlines and
// spaces with underscores.
func NormalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, " ", "_")
}

// MapColumns assigns each header to every field key whose rule it satisfies.
// When several headers satisfy the same rule the last one wins.
func MapColumns(headers []string) Mapping {
	m, _ := MapColumnsWithDiagnostics(headers)
	return m
}

// MapColumnsWithDiagnostics is MapColumns plus one Diagnostic per key that
// more than one header matched.
func MapColumnsWithDiagnostics(headers []string) (Mapping, []Diagnostic) {
	mapping := make(Mapping)
	candidates := make(map[models.FieldKey][]string)

	for _, raw := range headers {
		h := NormalizeHeader(raw)
		for _, rule := range columnRules {
			if rule.match(h) {
				mapping[rule.key] = h
				candidates[rule.key] = append(candidates[rule.key], h)
			}
		}
	}

	var diags []Diagnostic
	for _, rule := range columnRules {
		if c := candidates[rule.key]; len(c) > 1 {
			diags = append(diags, Diagnostic{
				Key:        rule.key,
				Candidates: c,
				Chosen:     mapping[rule.key],
			})
		}
	}

	return mapping, diags
}
