package classifier

import (
	"strings"
)

// Intent is the category of an input line. It selects the response builder.
type Intent string

const (
	Chat       Intent = "chat"
	Math       Intent = "math"
	Compare    Intent = "compare"
	Rank       Intent = "rank"
	Explain    Intent = "explain"
	Summarize  Intent = "summarize"
	Brainstorm Intent = "brainstorm"
)

// Route maps a command prefix to its intent.
type Route struct {
	Prefix string
	Intent Intent
}

// routes is checked in order; the first matching prefix wins.
var routes = []Route{
	{Prefix: "math:", Intent: Math},
	{Prefix: "compare:", Intent: Compare},
	{Prefix: "rank:", Intent: Rank},
	{Prefix: "explain:", Intent: Explain},
	{Prefix: "summarize:", Intent: Summarize},
	{Prefix: "brainstorm:", Intent: Brainstorm},
}

// Routes returns a copy of the prefix routes in priority order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// All lists every intent, Chat first.
func All() []Intent {
	out := []Intent{Chat}
	for _, r := range routes {
		out = append(out, r.Intent)
	}
	return out
}

type Classifier interface {
	Classify(text string) Intent
}

// PrefixClassifier matches case-insensitive command prefixes.
type PrefixClassifier struct {
	routes []Route
}

func NewPrefixClassifier() *PrefixClassifier {
	return &PrefixClassifier{routes: routes}
}

// Classify returns the intent of the first prefix the trimmed, lower-cased
// text starts with, or Chat.
func (c *PrefixClassifier) Classify(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, r := range c.routes {
		if strings.HasPrefix(t, r.Prefix) {
			return r.Intent
		}
	}
	return Chat
}

// Payload strips the command prefix of intent from text and trims the rest.
// For Chat, or when text does not carry the prefix, the trimmed text comes
// back unchanged.
func Payload(text string, intent Intent) string {
	t := strings.TrimSpace(text)
	for _, r := range routes {
		if r.Intent != intent {
			continue
		}
		if len(t) >= len(r.Prefix) && strings.EqualFold(t[:len(r.Prefix)], r.Prefix) {
			return strings.TrimSpace(t[len(r.Prefix):])
		}
	}
	return t
}
