// Package responder turns an input line into a Markdown reply. Each intent
// has exactly one builder; chat runs the safety and fact fallbacks.
package responder

import (
	"unicode/utf8"

	"github.com/xaenox/copilot-bot/internal/classifier"
	"github.com/xaenox/copilot-bot/internal/knowledge"
	"github.com/xaenox/copilot-bot/internal/markdown"
	"go.uber.org/zap"
)

const (
	DefaultShortReplyThreshold = 140
	DefaultMaxTableCols        = markdown.DefaultMaxTableCols
)

// Style tunes the shape of replies.
type Style struct {
	MaxTableCols int
	// ShortReplyThreshold is the length in characters below which a chat
	// message gets a one-line reply.
	ShortReplyThreshold int
}

func DefaultStyle() Style {
	return Style{
		MaxTableCols:        DefaultMaxTableCols,
		ShortReplyThreshold: DefaultShortReplyThreshold,
	}
}

// Reply is a rendered response and the intent that produced it.
type Reply struct {
	Intent classifier.Intent
	Text   string
}

type builder func(payload string) string

type Responder struct {
	classifier classifier.Classifier
	safety     *classifier.SafetyClassifier
	facts      *knowledge.Shard
	style      Style
	logger     *zap.Logger
	builders   map[classifier.Intent]builder
}

type Option func(*Responder)

// WithFacts replaces the built-in fact shard.
func WithFacts(facts *knowledge.Shard) Option {
	return func(r *Responder) { r.facts = facts }
}

// WithClassifier replaces the prefix classifier.
func WithClassifier(c classifier.Classifier) Option {
	return func(r *Responder) { r.classifier = c }
}

func New(style Style, logger *zap.Logger, opts ...Option) *Responder {
	if style.MaxTableCols <= 0 {
		style.MaxTableCols = DefaultMaxTableCols
	}
	if style.ShortReplyThreshold <= 0 {
		style.ShortReplyThreshold = DefaultShortReplyThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Responder{
		classifier: classifier.NewPrefixClassifier(),
		safety:     classifier.NewSafetyClassifier(),
		facts:      knowledge.NewShard(knowledge.DefaultFacts),
		style:      style,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.builders = map[classifier.Intent]builder{
		classifier.Chat:       r.respondChat,
		classifier.Math:       r.respondMath,
		classifier.Compare:    r.respondCompare,
		classifier.Rank:       r.respondRank,
		classifier.Explain:    r.respondExplain,
		classifier.Summarize:  r.respondSummarize,
		classifier.Brainstorm: r.respondBrainstorm,
	}
	return r
}

// Respond classifies text and runs the matching builder. It never fails:
// malformed payloads come back as notes.
func (r *Responder) Respond(text string) Reply {
	intent := r.classifier.Classify(text)
	build, ok := r.builders[intent]
	if !ok {
		r.logger.Warn("No builder for intent, falling back to chat",
			zap.String("intent", string(intent)))
		intent = classifier.Chat
		build = r.respondChat
	}

	r.logger.Debug("Dispatching input",
		zap.String("intent", string(intent)),
		zap.Int("length", utf8.RuneCountInString(text)))

	return Reply{
		Intent: intent,
		Text:   build(classifier.Payload(text, intent)),
	}
}

// HelpText is the command summary printed for /help.
func HelpText() string {
	return markdown.Lines(
		markdown.Heading(2, "Commands"),
		markdown.Lines(
			markdown.Bullet("Chat", "Just type your message."),
			markdown.Bullet("Math", "math: 2+3*4 or math: solve 2x+3=11"),
			markdown.Bullet("Explain", "explain: topic"),
			markdown.Bullet("Summarize", "summarize: paste text"),
			markdown.Bullet("Brainstorm", "brainstorm: your idea"),
			markdown.Bullet("Compare", "compare: a,b,c | price,battery"),
			markdown.Bullet("Rank", "rank: a, b, c"),
			markdown.Bullet("History", "/history"),
			markdown.Bullet("Quit", "/exit or Ctrl+C"),
		),
	)
}
