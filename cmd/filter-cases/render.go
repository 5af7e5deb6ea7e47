package main

import (
	"encoding/json"
	"fmt"
	"io"

	"caseviewer-backend/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func render(w io.Writer, format string, result *service.FilterResult) error {
	switch format {
	case "table", "":
		return renderTable(w, result)
	case "csv":
		return service.WriteCSV(w, result.Columns, result.Rows)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"count":   result.Count(),
			"columns": result.Columns,
			"rows":    result.Rows,
		})
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func renderTable(w io.Writer, result *service.FilterResult) error {
	if result.Count() == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No records found matching your filters."))
		return err
	}

	headers := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		headers[i] = col.Label
	}
	rows := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = row.Values()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "Records Found: %d\n%s\n", result.Count(), t.String())
	return err
}
