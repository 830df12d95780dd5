// Package table lays out plain-text columns for terminal listings.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const columnGap = "  "

// Format pads rows to the widest cell of each column. A non-empty header is
// emitted first, followed by a dashed rule as wide as the table. Cell
// widths are measured in terminal cells, ignoring ANSI escapes.
func Format(header []string, rows [][]string, alignments []Alignment) []string {
	all := rows
	if len(header) > 0 {
		all = append([][]string{header}, rows...)
	}
	if len(all) == 0 {
		return nil
	}
	widths := columnWidths(all)
	out := make([]string, 0, len(all)+1)
	for i, row := range all {
		out = append(out, formatRow(row, widths, alignments))
		if i == 0 && len(header) > 0 {
			out = append(out, strings.Repeat("-", totalWidth(widths)))
		}
	}
	return out
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}

func formatRow(row []string, widths []int, alignments []Alignment) string {
	var b strings.Builder
	for c, cell := range row {
		if c > 0 {
			b.WriteString(columnGap)
		}
		pad := strings.Repeat(" ", max(widths[c]-lipgloss.Width(cell), 0))
		if c < len(alignments) && alignments[c] == AlignRight {
			b.WriteString(pad)
			b.WriteString(cell)
			continue
		}
		if c == len(row)-1 {
			// no trailing padding on the last column
			b.WriteString(cell)
			continue
		}
		b.WriteString(cell)
		b.WriteString(pad)
	}
	return b.String()
}

func totalWidth(widths []int) int {
	total := 0
	for i, w := range widths {
		if i > 0 {
			total += len(columnGap)
		}
		total += w
	}
	return total
}
