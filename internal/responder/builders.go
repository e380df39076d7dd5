package responder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xaenox/copilot-bot/internal/calc"
	"github.com/xaenox/copilot-bot/internal/classifier"
	"github.com/xaenox/copilot-bot/internal/markdown"
	"go.uber.org/zap"
)

const (
	maxSummaryPoints = 6
	emptyCell        = "—"
)

var brainstormIdeas = [][]string{
	{"Lean pilot", "Ship a minimal core to validate demand quickly."},
	{"Delight hooks", "Add one playful feature users talk about."},
	{"Data loop", "Instrument usage to learn and iterate weekly."},
	{"Partner angle", "Find a collaborator who amplifies reach."},
}

func note(text string) string {
	return markdown.Bullet("Note", text)
}

func (r *Responder) respondChat(text string) string {
	switch verdict := r.safety.Check(text); verdict {
	case classifier.Harmful:
		r.logger.Info("Refused harmful request", zap.String("verdict", verdict.String()))
		return markdown.Lines(
			markdown.Heading(3, "I can’t help with that"),
			"I’m here to keep you safe and informed. I can’t assist with harming yourself or others.",
			"If you want general information or a different topic, I’m here for that.",
		)
	case classifier.Medical:
		r.logger.Info("Medical disclaimer returned", zap.String("verdict", verdict.String()))
		return markdown.Lines(
			markdown.Heading(3, "General guidance only"),
			"I can share general information, but I can’t provide medical advice or diagnoses.",
			"Consider speaking to a qualified professional for personalized support.",
		)
	}

	if fact, ok := r.facts.Lookup(text); ok {
		return markdown.Lines(markdown.Heading(3, "Direct answer"), fact)
	}

	if utf8.RuneCountInString(text) < r.style.ShortReplyThreshold {
		return "Got it. Want a quick breakdown or a deeper dive?"
	}
	return markdown.Lines(
		markdown.Heading(2, "Overview"),
		"Here’s a concise, structured take tailored to your prompt.",
		"",
		markdown.Heading(3, "Key points"),
		markdown.Lines(
			markdown.Bullet("Context", "I’m offline, so I’ll focus on reasoning and clarity."),
			markdown.Bullet("Assumptions", "I infer intent from your wording and keep answers concise."),
			markdown.Bullet("Next step", "Ask for a comparison, math, or a summary for more structure."),
		),
	)
}

func (r *Responder) respondMath(payload string) string {
	if len(payload) >= 5 && strings.EqualFold(payload[:5], "solve") {
		eq := strings.TrimSpace(payload[5:])
		sol, err := calc.SolveLinear(eq)
		if err != nil {
			r.logger.Debug("Linear solve rejected", zap.String("equation", eq), zap.Error(err))
			return markdown.Lines(markdown.Heading(2, "Linear equation solution"), note(calc.Note(err, calc.NoteNotLinear)))
		}
		return markdown.Lines(markdown.Heading(2, "Linear equation solution"), sol.Steps())
	}

	res, err := calc.Evaluate(payload)
	if err != nil {
		r.logger.Debug("Expression rejected", zap.String("expression", payload), zap.Error(err))
		return markdown.Lines(markdown.Heading(2, "Computation"), note(calc.ArithmeticNote))
	}
	return markdown.Lines(markdown.Heading(2, "Computation"), res.Steps())
}

func (r *Responder) respondExplain(topic string) string {
	if topic == "" {
		topic = "that topic"
	}
	return markdown.Lines(
		markdown.Heading(2, "Explainer: "+topic),
		markdown.Heading(3, "Core idea"),
		"Think of it as a system with inputs, a transformation, and outputs—optimize the transformation.",
		markdown.Heading(3, "Why it matters"),
		markdown.Lines(
			markdown.Bullet("Clarity", "It reduces ambiguity and helps decisions."),
			markdown.Bullet("Speed", "Clear models shorten feedback loops."),
			markdown.Bullet("Reliability", "Explicit assumptions avoid hidden errors."),
		),
	)
}

func (r *Responder) respondSummarize(text string) string {
	if text == "" {
		return markdown.Lines(markdown.Heading(3, "I need the text"), "Paste the content after 'summarize:'")
	}

	sentences := SplitSentences(text)
	if len(sentences) > maxSummaryPoints {
		sentences = sentences[:maxSummaryPoints]
	}
	bullets := make([]string, len(sentences))
	for i, s := range sentences {
		bullets[i] = markdown.Bullet(fmt.Sprintf("Point %d", i+1), s)
	}
	return markdown.Lines(markdown.Heading(2, "Summary"), markdown.Lines(bullets...))
}

func (r *Responder) respondBrainstorm(topic string) string {
	if topic == "" {
		topic = "your idea"
	}
	return markdown.Lines(
		markdown.Heading(2, "Brainstorm: "+topic),
		markdown.Table([]string{"Idea", "Why"}, brainstormIdeas, r.style.MaxTableCols),
	)
}

func (r *Responder) respondCompare(payload string) string {
	items, attrs := ParseComparePayload(payload)
	if len(items) == 0 || len(attrs) == 0 {
		return markdown.Lines(
			markdown.Heading(3, "I need items and attributes"),
			"Format: compare: item1, item2 | price, battery, camera",
		)
	}

	rows := make([][]string, len(items))
	for i, it := range items {
		row := []string{it}
		for range attrs {
			row = append(row, emptyCell)
		}
		rows[i] = row
	}
	headers := append([]string{"Item"}, attrs...)
	return markdown.Lines(markdown.Heading(2, "Comparison"), markdown.Table(headers, rows, r.style.MaxTableCols))
}

func (r *Responder) respondRank(payload string) string {
	items := splitList(payload)
	if len(items) == 0 {
		return markdown.Lines(markdown.Heading(3, "I need items"), "Format: rank: item1, item2, item3")
	}

	ranked := RankItems(items)
	rows := make([][]string, len(ranked))
	for i, it := range ranked {
		rows[i] = []string{strconv.Itoa(i + 1), it}
	}
	return markdown.Lines(markdown.Heading(2, "Ranking"), markdown.Table([]string{"Rank", "Item"}, rows, r.style.MaxTableCols))
}

// ParseComparePayload splits "a, b | price, battery" into items and
// attributes. Anything after a second '|' is ignored.
func ParseComparePayload(payload string) (items, attrs []string) {
	parts := strings.Split(payload, "|")
	items = splitList(parts[0])
	if len(parts) > 1 {
		attrs = splitList(parts[1])
	}
	return items, attrs
}

// RankItems sorts items case-insensitively. Items equal under case folding
// keep their input order, so ranking a ranked list changes nothing.
func RankItems(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// SplitSentences breaks text after '.', '!' or '?' when whitespace follows.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
