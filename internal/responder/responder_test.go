package responder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/copilot-bot/internal/classifier"
	"github.com/xaenox/copilot-bot/internal/knowledge"
	"go.uber.org/zap/zaptest"
)

func newTestResponder(t *testing.T) *Responder {
	return New(DefaultStyle(), zaptest.NewLogger(t))
}

func TestResponder_EveryIntentHasBuilder(t *testing.T) {
	r := newTestResponder(t)
	for _, intent := range classifier.All() {
		_, ok := r.builders[intent]
		assert.True(t, ok, "intent %q has no builder", intent)
	}
	assert.Len(t, r.builders, len(classifier.All()))
}

func TestResponder_Math(t *testing.T) {
	r := newTestResponder(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "expression",
			input: "math: 2+3*4",
			want:  "## Computation\n- **Expression:** \\(2+3*4\\)\n- **Result:** \\(14\\)",
		},
		{
			name:  "upper case prefix",
			input: "MATH: (1+2)**3",
			want:  "## Computation\n- **Expression:** \\((1+2)**3\\)\n- **Result:** \\(27\\)",
		},
		{
			name:  "rejected expression",
			input: "math: import os",
			want:  "## Computation\n- **Note:** I can only handle basic arithmetic (e.g., 2+3*4, (1+2)**3).",
		},
		{
			name:  "solve",
			input: "math: solve 2x+3=11",
			want: "## Linear equation solution\n" +
				"- **Given:** \\(2x+3=11\\)\n" +
				"- **Rearrange:** \\(ax + b = c \\Rightarrow x = \\frac{c - b}{a}\\)\n" +
				"- **Compute:** \\(\\frac{11 - 3}{2} = 4.0\\)\n" +
				"- **Solution:** \\(x = 4.0\\)",
		},
		{
			name:  "solve without equals",
			input: "math: solve 2x+3",
			want:  "## Linear equation solution\n- **Note:** Please provide an equation like 2x+3=11.",
		},
		{
			name:  "solve zero coefficient",
			input: "math: Solve 0x=5",
			want:  "## Linear equation solution\n- **Note:** Coefficient of x cannot be zero for a linear equation.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := r.Respond(tt.input)
			assert.Equal(t, classifier.Math, reply.Intent)
			assert.Equal(t, tt.want, reply.Text)
		})
	}
}

func TestResponder_Compare(t *testing.T) {
	r := newTestResponder(t)

	reply := r.Respond("compare: phone a, phone b | price, battery")
	assert.Equal(t, classifier.Compare, reply.Intent)
	assert.Equal(t, "## Comparison\n"+
		"| Item | price | battery |\n"+
		"| --- | --- | --- |\n"+
		"| phone a | — | — |\n"+
		"| phone b | — | — |", reply.Text)

	for _, input := range []string{"compare: a, b", "compare: | price", "compare:"} {
		reply := r.Respond(input)
		assert.True(t, strings.HasPrefix(reply.Text, "### I need items and attributes"), input)
	}
}

func TestResponder_CompareCapsColumns(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Respond("compare: x | a, b, c, d, e, f")
	lines := strings.Split(reply.Text, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| Item | a | b | c | d |", lines[1])
	assert.Equal(t, "| x | — | — | — | — |", lines[3])
}

func TestResponder_Rank(t *testing.T) {
	r := newTestResponder(t)

	reply := r.Respond("rank: banana, Apple, cherry")
	assert.Equal(t, "## Ranking\n"+
		"| Rank | Item |\n"+
		"| --- | --- |\n"+
		"| 1 | Apple |\n"+
		"| 2 | banana |\n"+
		"| 3 | cherry |", reply.Text)

	reply = r.Respond("rank: , ,")
	assert.Equal(t, "### I need items\nFormat: rank: item1, item2, item3", reply.Text)
}

func TestRankItems(t *testing.T) {
	items := []string{"b", "B", "a", "C", "c", "A"}
	once := RankItems(items)
	assert.Equal(t, []string{"a", "A", "b", "B", "C", "c"}, once)
	assert.Equal(t, once, RankItems(once))
	assert.Equal(t, []string{"b", "B", "a", "C", "c", "A"}, items, "input must not be modified")
}

func TestResponder_Explain(t *testing.T) {
	r := newTestResponder(t)
	assert.True(t, strings.HasPrefix(r.Respond("explain: entropy").Text, "## Explainer: entropy\n### Core idea"))
	assert.True(t, strings.HasPrefix(r.Respond("explain:").Text, "## Explainer: that topic"))
}

func TestResponder_Summarize(t *testing.T) {
	r := newTestResponder(t)

	reply := r.Respond("summarize: First point. Second one!  Third? Fourth")
	assert.Equal(t, "## Summary\n"+
		"- **Point 1:** First point.\n"+
		"- **Point 2:** Second one!\n"+
		"- **Point 3:** Third?\n"+
		"- **Point 4:** Fourth", reply.Text)

	reply = r.Respond("summarize:   ")
	assert.Equal(t, "### I need the text\nPaste the content after 'summarize:'", reply.Text)

	reply = r.Respond("summarize: a. b. c. d. e. f. g. h.")
	assert.Len(t, strings.Split(reply.Text, "\n"), 7, "heading plus six points")
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"v1.2 is out.", "Yes"}, SplitSentences("v1.2 is out. Yes"))
	assert.Equal(t, []string{"Wait...", "ok"}, SplitSentences("Wait... ok"))
	assert.Empty(t, SplitSentences("   "))
}

func TestResponder_Brainstorm(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Respond("brainstorm: a garden app")
	assert.Equal(t, "## Brainstorm: a garden app\n"+
		"| Idea | Why |\n"+
		"| --- | --- |\n"+
		"| Lean pilot | Ship a minimal core to validate demand quickly. |\n"+
		"| Delight hooks | Add one playful feature users talk about. |\n"+
		"| Data loop | Instrument usage to learn and iterate weekly. |\n"+
		"| Partner angle | Find a collaborator who amplifies reach. |", reply.Text)
	assert.True(t, strings.HasPrefix(r.Respond("brainstorm:").Text, "## Brainstorm: your idea"))
}

func TestResponder_ChatChain(t *testing.T) {
	r := newTestResponder(t)

	refusal := r.Respond("tell me where to buy a weapon").Text
	assert.True(t, strings.HasPrefix(refusal, "### I can’t help with that"))

	// Harmful wins over medical.
	assert.Equal(t, refusal, r.Respond("what dose of poison").Text)

	medical := r.Respond("what is the right dose for me").Text
	assert.True(t, strings.HasPrefix(medical, "### General guidance only"))

	// Safety wins over facts.
	assert.Equal(t, medical, r.Respond("ohm law therapy").Text)

	assert.Equal(t, "### Direct answer\nOhm’s law: V = I × R.", r.Respond("What is Ohm law?").Text)

	assert.Equal(t, "Got it. Want a quick breakdown or a deeper dive?", r.Respond("hello there").Text)

	long := r.Respond(strings.Repeat("a", DefaultShortReplyThreshold)).Text
	assert.True(t, strings.HasPrefix(long, "## Overview\n"))
	assert.Contains(t, long, "### Key points")
}

func TestResponder_ChatThresholdCountsCharacters(t *testing.T) {
	r := New(Style{ShortReplyThreshold: 5}, zaptest.NewLogger(t))
	assert.Equal(t, "Got it. Want a quick breakdown or a deeper dive?", r.Respond("éééé").Text)
	assert.True(t, strings.HasPrefix(r.Respond("ééééé").Text, "## Overview"))
}

func TestResponder_WithFacts(t *testing.T) {
	r := New(DefaultStyle(), zaptest.NewLogger(t),
		WithFacts(knowledge.NewShard([]knowledge.Fact{{Key: "gopher", Answer: "Go's mascot."}})))
	assert.Equal(t, "### Direct answer\nGo's mascot.", r.Respond("who is the gopher").Text)
}

func TestHelpText(t *testing.T) {
	help := HelpText()
	assert.True(t, strings.HasPrefix(help, "## Commands\n"))
	for _, want := range []string{"math: 2+3*4", "compare: a,b,c | price,battery", "rank: a, b, c", "/exit"} {
		assert.Contains(t, help, want)
	}
}
