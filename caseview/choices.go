package caseview

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"caseviewer-backend/models"
)

// AllOption disables a filter
const AllOption = "All"

var (
	DefaultStatuses    = []string{"Entered", "Renewed", "Unsatisfied"}
	DefaultCourts      = []string{"Circuit Court", "District Court"}
	DefaultAmountTiers = []string{AllOption, ">= $10,000", ">= $25,000", ">= $50,000", ">= $100,000"}
	DefaultCaseTypes   = []string{
		"Civil - General", "Civil - Foreclosure", "Civil - Contract", "Judgment - Monetary",
		"Lien / Judgment", "Paternity", "Judgment - District Court Lien",
		"Domestic Relations (Divorce)", "Judgment - State Tax Lien", "Civil - Tort / Contract",
		"Paternity / Parentage - Private", "Criminal", "Judgment - Restitution",
		"Divorce - Absolute", "Foreclosure - Residential", "Contract - Breach", "URESA / UIFSA",
		"Guardianship - Minor Person and Property", "Paternity / Parentage - Agency", "Custody",
		"Confessed Judgment", "Tort - Premises Liability", "Guardianship",
		"Condemnation / Eminent Domain", "Contract", "Tort - Wrongful Death", "Tort - Lead Paint",
		"Tort - Motor", "Recorded Judgment", "Judgment - Federal Lien", "Foreign Judgment",
		"Employment / Labor", "Other Civil", "Tort - Other", "Attorney Grievance", "Tort - Fraud",
		"Judgment - Other Court",
	}
	DefaultStartDate = time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Catalog holds the configured option data offered alongside values found in the sheet
type Catalog struct {
	Statuses      []string
	Courts        []string
	CaseTypes     []string
	AmountTiers   []string
	DefaultAmount string
	DefaultStart  time.Time
}

// DefaultCatalog returns the stock option data
func DefaultCatalog() Catalog {
	return Catalog{
		Statuses:      DefaultStatuses,
		Courts:        DefaultCourts,
		CaseTypes:     DefaultCaseTypes,
		AmountTiers:   DefaultAmountTiers,
		DefaultAmount: DefaultAmountTiers[1],
		DefaultStart:  DefaultStartDate,
	}
}

// Choices are the option lists and default selections for the filter controls
type Choices struct {
	Statuses    []string               `json:"statuses"`
	Courts      []string               `json:"courts"`
	CaseTypes   []string               `json:"case_types"`
	AmountTiers []string               `json:"amount_tiers"`
	Defaults    models.FilterSelection `json:"defaults"`
}

// BuildChoices derives option lists from the table. Courts and case types come
// from the distinct values of their columns, falling back to the catalog when
// the column is unmapped or empty. Statuses always come from the catalog.
func BuildChoices(t *Table, m Mapping, cat Catalog, today time.Time) Choices {
	courts := distinctValues(t, m, models.FieldCourtSystem)
	if len(courts) == 0 {
		courts = cat.Courts
	}
	caseTypes := distinctValues(t, m, models.FieldCaseType)
	if len(caseTypes) == 0 {
		caseTypes = cat.CaseTypes
	}

	tiers := cat.AmountTiers
	if len(tiers) == 0 {
		tiers = DefaultAmountTiers
	}

	start := cat.DefaultStart
	if start.IsZero() {
		start = DefaultStartDate
	}

	return Choices{
		Statuses:    withAll(cat.Statuses),
		Courts:      withAll(courts),
		CaseTypes:   withAll(caseTypes),
		AmountTiers: tiers,
		Defaults: models.FilterSelection{
			Status:    AllOption,
			Court:     AllOption,
			CaseType:  AllOption,
			Amount:    cat.DefaultAmount,
			StartDate: start.Format(time.DateOnly),
			EndDate:   today.Format(time.DateOnly),
		},
	}
}

func withAll(values []string) []string {
	out := make([]string, 0, len(values)+1)
	out = append(out, AllOption)
	for _, v := range values {
		if !strings.EqualFold(v, AllOption) {
			out = append(out, v)
		}
	}
	return out
}

func distinctValues(t *Table, m Mapping, key models.FieldKey) []string {
	if t == nil || !m.Has(key) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, rec := range t.Records {
		v, _ := t.Field(rec, m, key)
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var thresholdStripRe = regexp.MustCompile(`[^\d.]`)

// ParseThreshold reads the minimum amount from a tier label such as ">= $25,000".
// "All" and "" select no threshold.
func ParseThreshold(label string) (float64, bool, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, AllOption) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(thresholdStripRe.ReplaceAllString(label, ""), 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidThreshold, label)
	}
	return v, true, nil
}
