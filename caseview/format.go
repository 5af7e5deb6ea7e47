package caseview

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"caseviewer-backend/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LinkStyle selects how case links are rendered in display rows
type LinkStyle string

const (
	LinkButton   LinkStyle = "button"
	LinkMarkdown LinkStyle = "markdown"
	LinkPlain    LinkStyle = "plain"
)

const viewCaseLabel = "View Case"

// ErrInvalidLinkStyle is returned for a link style other than button, markdown or plain
var ErrInvalidLinkStyle = errors.New("link style must be button, markdown or plain")

// ParseLinkStyle validates a link style name
func ParseLinkStyle(s string) (LinkStyle, error) {
	style := LinkStyle(strings.ToLower(strings.TrimSpace(s)))
	switch style {
	case LinkButton, LinkMarkdown, LinkPlain:
		return style, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLinkStyle, s)
	}
}

// FormatCurrency renders an amount as dollars with two decimals and thousands separators
func FormatCurrency(v float64) string {
	// printers and casers hold state, so neither is shared across goroutines
	return "$" + message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// FormatLink renders a case URL in the given style. Blank URLs render as "".
// Button and markdown links are only built for http and https URLs; anything
// else is rendered as escaped text.
func FormatLink(url string, style LinkStyle) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if style != LinkPlain && !IsWebURL(url) {
		return html.EscapeString(url)
	}
	switch style {
	case LinkMarkdown:
		return fmt.Sprintf("[%s](%s)", viewCaseLabel, url)
	case LinkPlain:
		return url
	default:
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer"><button class="view-case">%s</button></a>`,
			html.EscapeString(url), viewCaseLabel)
	}
}

// IsWebURL reports whether u uses the http or https scheme
func IsWebURL(u string) bool {
	u = strings.ToLower(strings.TrimSpace(u))
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// FieldLabel returns the column heading for a field key
func FieldLabel(key models.FieldKey) string {
	if key == models.FieldCaseLink {
		return viewCaseLabel
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(key), "_", " "))
}
