package console

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Renderer turns Markdown into terminal output.
type Renderer interface {
	Render(markdown string) (string, error)
}

// NewGlamourRenderer styles Markdown for the current terminal background.
func NewGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if wordWrap <= 0 {
		wordWrap = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r, nil
}
