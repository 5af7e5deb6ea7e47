package caseview

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// ValueState tags the outcome of parsing a spreadsheet cell
type ValueState int

const (
	// Blank cells hold no text
	Blank ValueState = iota
	// Parsed cells produced a value
	Parsed
	// Unparseable cells held text that could not be read
	Unparseable
)

func (s ValueState) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Unparseable:
		return "unparseable"
	default:
		return "blank"
	}
}

var amountStripRe = regexp.MustCompile(`[^\d.\-]`)

// Amount is a parsed judgment amount
type Amount struct {
	Value float64
	Raw   string
	State ValueState
}

// ParseAmount strips every character other than digits, '.' and '-' and reads
// the rest as a number. Blank and unreadable cells carry Value 0.
func ParseAmount(raw string) Amount {
	if strings.TrimSpace(raw) == "" {
		return Amount{Raw: raw, State: Blank}
	}
	v, err := strconv.ParseFloat(amountStripRe.ReplaceAllString(raw, ""), 64)
	if err != nil {
		return Amount{Raw: raw, State: Unparseable}
	}
	return Amount{Value: v, Raw: raw, State: Parsed}
}

// Known reports whether the amount was read from the cell
func (a Amount) Known() bool {
	return a.State == Parsed
}

// dateLayouts are tried in order before the generic fallback.
// Single-digit months and days are accepted.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
}

// Date is a parsed entry date, truncated to the calendar day in UTC
type Date struct {
	Time  time.Time
	Raw   string
	State ValueState
}

// ParseDate reads a cell using the fixed layouts, then a best-effort generic parse
func ParseDate(raw string) Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{Raw: raw, State: Blank}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: day(t), Raw: raw, State: Parsed}
		}
	}
	if t, ok := parseLoose(s); ok {
		return Date{Time: day(t), Raw: raw, State: Parsed}
	}
	return Date{Raw: raw, State: Unparseable}
}

// parseLoose handles free-form dates ("March 14, 2021", RFC 3339 timestamps).
// Text without any digit is never a date, and neither is a run of more than
// eight digits (epoch timestamps) or a result without a year.
func parseLoose(s string) (t time.Time, ok bool) {
	if strings.IndexFunc(s, unicode.IsDigit) < 0 {
		return time.Time{}, false
	}
	if len(s) > 8 && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return time.Time{}, false
	}
	// dateparse panics on some malformed inputs
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || parsed.Year() == 0 {
		return time.Time{}, false
	}
	return parsed, true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Known reports whether the date was read from the cell
func (d Date) Known() bool {
	return d.State == Parsed
}

// ISO formats the date as YYYY-MM-DD, or "" when unknown
func (d Date) ISO() string {
	if !d.Known() {
		return ""
	}
	return d.Time.Format(time.DateOnly)
}
