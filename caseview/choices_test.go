package caseview

import (
	"testing"
	"time"

	"caseviewer-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		label string
		value float64
		ok    bool
	}{
		{"All", 0, false},
		{"all", 0, false},
		{"", 0, false},
		{">= $10,000", 10000, true},
		{">= $100,000", 100000, true},
		{"25000", 25000, true},
		{"$2,500.50", 2500.50, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			v, ok, err := ParseThreshold(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.value, v, 1e-9)
		})
	}

	_, _, err := ParseThreshold("lots")
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestNewCriteria_Validation(t *testing.T) {
	_, err := NewCriteria(models.FilterSelection{StartDate: "01/02/2020"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = NewCriteria(models.FilterSelection{EndDate: "soon"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = NewCriteria(models.FilterSelection{Amount: ">= lots"})
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	sel := models.FilterSelection{Status: " Entered ", Amount: ">= $50,000", StartDate: "2014-01-01"}
	c, err := NewCriteria(sel)
	require.NoError(t, err)
	assert.Equal(t, sel, c.Selection())

	v, ok := c.MinAmount()
	assert.True(t, ok)
	assert.Equal(t, 50000.0, v)

	start, ok := c.Start()
	assert.True(t, ok)
	assert.Equal(t, DefaultStartDate, start)

	_, ok = c.End()
	assert.False(t, ok)
	assert.True(t, c.DateFilterActive())
}

func TestBuildChoices_FromData(t *testing.T) {
	tbl, m := loadTable(t, [][]string{
		{"Case Number", "Court System", "Case Type"},
		{"1", "District Court", "Contract"},
		{"2", " Circuit Court ", "Civil - General"},
		{"3", "District Court", ""},
	})
	today := time.Date(2025, time.March, 9, 15, 0, 0, 0, time.UTC)

	ch := BuildChoices(tbl, m, DefaultCatalog(), today)

	assert.Equal(t, []string{"All", "Entered", "Renewed", "Unsatisfied"}, ch.Statuses)
	assert.Equal(t, []string{"All", "Circuit Court", "District Court"}, ch.Courts)
	assert.Equal(t, []string{"All", "Civil - General", "Contract"}, ch.CaseTypes)
	assert.Equal(t, DefaultAmountTiers, ch.AmountTiers)
	assert.Equal(t, models.FilterSelection{
		Status:    "All",
		Court:     "All",
		CaseType:  "All",
		Amount:    ">= $10,000",
		StartDate: "2014-01-01",
		EndDate:   "2025-03-09",
	}, ch.Defaults)
}

func TestBuildChoices_FallsBackToCatalog(t *testing.T) {
	tbl, m := loadTable(t, [][]string{{"Case Number"}, {"1"}})
	cat := Catalog{
		Statuses:  []string{"Open"},
		Courts:    []string{"Supreme Court"},
		CaseTypes: []string{"Tort", "All"},
	}

	ch := BuildChoices(tbl, m, cat, time.Now())

	assert.Equal(t, []string{"All", "Open"}, ch.Statuses)
	assert.Equal(t, []string{"All", "Supreme Court"}, ch.Courts)
	assert.Equal(t, []string{"All", "Tort"}, ch.CaseTypes)
	assert.Equal(t, DefaultAmountTiers, ch.AmountTiers)
	assert.Equal(t, "2014-01-01", ch.Defaults.StartDate)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$50,000.00", FormatCurrency(50000))
	assert.Equal(t, "$1,234.56", FormatCurrency(1234.56))
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$999.90", FormatCurrency(999.9))
}

func TestFormatLink(t *testing.T) {
	assert.Equal(t, "", FormatLink("  ", LinkButton))
	assert.Equal(t, "[View Case](https://x.test/1)", FormatLink("https://x.test/1", LinkMarkdown))
	assert.Equal(t, "https://x.test/1", FormatLink(" https://x.test/1 ", LinkPlain))
	assert.Contains(t, FormatLink(`https://x.test/"q"`, LinkButton), `href="https://x.test/&#34;q&#34;"`)

	assert.Contains(t, FormatLink("HTTPS://x.test/1", LinkButton), `href="HTTPS://x.test/1"`)

	// non-web schemes never become anchors
	assert.Equal(t, "javascript:alert(1)", FormatLink("javascript:alert(1)", LinkMarkdown))
	assert.Equal(t, "javascript:alert(&#34;x&#34;)", FormatLink(`javascript:alert("x")`, LinkButton))
	assert.NotContains(t, FormatLink("data:text/html,<b>x</b>", LinkButton), "<a ")
	assert.Equal(t, "javascript:alert(1)", FormatLink("javascript:alert(1)", LinkPlain))
}

func TestParseLinkStyle(t *testing.T) {
	for _, in := range []string{"button", "markdown", " Plain "} {
		_, err := ParseLinkStyle(in)
		assert.NoError(t, err, in)
	}
	style, err := ParseLinkStyle("Markdown")
	require.NoError(t, err)
	assert.Equal(t, LinkMarkdown, style)

	for _, in := range []string{"", "fancy", "html"} {
		_, err := ParseLinkStyle(in)
		assert.ErrorIs(t, err, ErrInvalidLinkStyle, in)
	}
}
