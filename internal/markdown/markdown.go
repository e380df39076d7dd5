// Package markdown builds the small Markdown fragments responses are made of.
package markdown

import (
	"fmt"
	"strings"
)

// DefaultMaxTableCols caps table width when no explicit limit is set.
const DefaultMaxTableCols = 5

// Heading returns an ATX heading; level is clamped to 1..6.
func Heading(level int, text string) string {
	level = max(1, min(6, level))
	return strings.Repeat("#", level) + " " + text
}

// Bullet returns a list item with a bold label.
func Bullet(label, desc string) string {
	return fmt.Sprintf("- **%s:** %s", label, desc)
}

// Lines joins parts with newlines.
func Lines(parts ...string) string {
	return strings.Join(parts, "\n")
}

// Table renders a pipe table. Headers beyond maxCols are dropped and every
// row is cut to the header width. maxCols <= 0 means DefaultMaxTableCols.
func Table(headers []string, rows [][]string, maxCols int) string {
	if len(headers) == 0 {
		return ""
	}
	if maxCols <= 0 {
		maxCols = DefaultMaxTableCols
	}
	if len(headers) > maxCols {
		headers = headers[:maxCols]
	}

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, row(headers), row(sep))
	for _, r := range rows {
		if len(r) > len(headers) {
			r = r[:len(headers)]
		}
		out = append(out, row(r))
	}
	return strings.Join(out, "\n")
}

func row(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
