package caseview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"caseviewer-backend/models"
)

var (
	ErrInvalidThreshold = errors.New("invalid amount threshold")
	ErrInvalidDate      = errors.New("invalid date")
)

// Criteria is an immutable snapshot of the dashboard filter selections.
// Build one with NewCriteria for every filter pass.
type Criteria struct {
	selection models.FilterSelection

	status   string
	court    string
	caseType string

	minAmount    float64
	hasMinAmount bool

	start    time.Time
	end      time.Time
	hasStart bool
	hasEnd   bool
}

// NewCriteria validates a selection. "All" or an empty value disables an
// equality or amount filter; an empty date leaves that bound open.
func NewCriteria(sel models.FilterSelection) (Criteria, error) {
	c := Criteria{
		selection: sel,
		status:    choice(sel.Status),
		court:     choice(sel.Court),
		caseType:  choice(sel.CaseType),
	}

	threshold, ok, err := ParseThreshold(sel.Amount)
	if err != nil {
		return Criteria{}, err
	}
	c.minAmount, c.hasMinAmount = threshold, ok

	if c.start, c.hasStart, err = parseBound(sel.StartDate); err != nil {
		return Criteria{}, fmt.Errorf("start date: %w", err)
	}
	if c.end, c.hasEnd, err = parseBound(sel.EndDate); err != nil {
		return Criteria{}, fmt.Errorf("end date: %w", err)
	}

	return c, nil
}

func choice(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, AllOption) {
		return ""
	}
	return v
}

func parseBound(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q, want YYYY-MM-DD", ErrInvalidDate, v)
	}
	return t, true, nil
}

// Selection returns the selection the criteria were built from
func (c Criteria) Selection() models.FilterSelection {
	return c.selection
}

// MinAmount returns the amount threshold, if one is selected
func (c Criteria) MinAmount() (float64, bool) {
	return c.minAmount, c.hasMinAmount
}

// Start returns the inclusive lower date bound, if set
func (c Criteria) Start() (time.Time, bool) {
	return c.start, c.hasStart
}

// End returns the inclusive upper date bound, if set
func (c Criteria) End() (time.Time, bool) {
	return c.end, c.hasEnd
}

// DateFilterActive reports whether either date bound is set
func (c Criteria) DateFilterActive() bool {
	return c.hasStart || c.hasEnd
}
