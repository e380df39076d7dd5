package responder

import (
	"strconv"
	"strings"

	"github.com/xaenox/copilot-bot/internal/markdown"
	"github.com/xaenox/copilot-bot/internal/models"
)

const noHistory = "You don't have any exchanges yet."

// FormatHistory renders exchanges, newest first, as a table for /history.
func FormatHistory(exchanges []*models.Exchange) string {
	if len(exchanges) == 0 {
		return noHistory
	}

	rows := make([][]string, len(exchanges))
	for i, e := range exchanges {
		rows[i] = []string{strconv.Itoa(i + 1), e.Intent, escapeCell(e.Input)}
	}
	return markdown.Lines(
		markdown.Heading(2, "Recent exchanges"),
		markdown.Table([]string{"#", "Intent", "Input"}, rows, 0),
	)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
