package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9"))

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	tableRuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

// Table is a fixed-column table for command output. Columns are sized to
// the widest cell.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders the table with padded columns and a rule under the
// header row.
func RenderTable(table Table) string {
	if len(table.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(table.Headers))
	for i, header := range table.Headers {
		widths[i] = len(header)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var output strings.Builder
	if table.Title != "" {
		output.WriteString(applyStyle(successStyle, table.Title))
		output.WriteString("\n\n")
	}

	output.WriteString(renderRow(table.Headers, widths, tableHeaderStyle))
	output.WriteString("\n")

	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	output.WriteString(renderRow(rule, widths, tableRuleStyle))
	output.WriteString("\n")

	for _, row := range table.Rows {
		output.WriteString(renderRow(row, widths, tableCellStyle))
		output.WriteString("\n")
	}

	return output.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var row strings.Builder
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		row.WriteString(applyStyle(style, fmt.Sprintf("%-*s", widths[i], cell)))
		if i < len(cells)-1 {
			row.WriteString(applyStyle(tableRuleStyle, " | "))
		}
	}
	return row.String()
}
