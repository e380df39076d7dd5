// Package console runs the interactive terminal loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/copilot-bot/internal/markdown"
	"github.com/xaenox/copilot-bot/internal/models"
	"github.com/xaenox/copilot-bot/internal/responder"
	"github.com/xaenox/copilot-bot/internal/storage"
	"go.uber.org/zap"
)

const (
	Prompt  = "> "
	Goodbye = "Goodbye."
)

var exitCommands = map[string]bool{
	"/exit": true,
	"exit":  true,
	"quit":  true,
}

type Session struct {
	in           io.Reader
	out          io.Writer
	responder    *responder.Responder
	store        storage.Storage
	renderer     Renderer
	historyLimit int
	logger       *zap.Logger
	newID        func() string
}

type Option func(*Session)

// WithRenderer renders every reply before printing it.
func WithRenderer(r Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

func NewSession(in io.Reader, out io.Writer, resp *responder.Responder, store storage.Storage, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		in:           in,
		out:          out,
		responder:    resp,
		store:        store,
		historyLimit: 5,
		logger:       logger,
		newID:        func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads lines until an exit command, end of input or ctx cancellation.
// On cancellation the input is closed when it is an io.Closer, which ends the
// reader goroutine; any other reader keeps that goroutine blocked until its
// next line or end of input.
func (s *Session) Run(ctx context.Context) error {
	s.print(markdown.Heading(1, "Local Copilot-style chatbot"))
	s.println("Type /help for commands. No internet, no APIs.")

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		s.write(Prompt)
		select {
		case <-ctx.Done():
			s.closeInput()
			s.println("\n" + Goodbye)
			return nil
		case err := <-readErr:
			s.println("\n" + Goodbye)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			if !s.handleLine(ctx, strings.TrimSpace(line)) {
				return nil
			}
		}
	}
}

// handleLine answers one input line; it returns false when the session ends.
func (s *Session) handleLine(ctx context.Context, line string) bool {
	if line == "" {
		return true
	}

	switch cmd := strings.ToLower(line); {
	case exitCommands[cmd]:
		s.println(Goodbye)
		return false
	case cmd == "/help":
		s.print(responder.HelpText())
		return true
	case cmd == "/history":
		s.print(s.history(ctx))
		return true
	}

	reply := s.responder.Respond(line)
	s.print(reply.Text)
	s.record(ctx, line, reply)
	return true
}

func (s *Session) history(ctx context.Context) string {
	exchanges, err := s.store.GetUserExchanges(ctx, models.LocalUserID, s.historyLimit, 0)
	if err != nil {
		s.logger.Error("Failed to get exchange history", zap.Error(err))
		return markdown.Bullet("Note", "History is unavailable right now.")
	}
	return responder.FormatHistory(exchanges)
}

func (s *Session) record(ctx context.Context, input string, reply responder.Reply) {
	exchange := &models.Exchange{
		ID:        s.newID(),
		UserID:    models.LocalUserID,
		Input:     input,
		Intent:    string(reply.Intent),
		Response:  reply.Text,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveExchange(ctx, exchange); err != nil {
		s.logger.Error("Failed to save exchange",
			zap.Error(err),
			zap.String("exchange_id", exchange.ID))
	}
}

func (s *Session) closeInput() {
	if c, ok := s.in.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Debug("Failed to close input", zap.Error(err))
		}
	}
}

// print writes Markdown, rendered when a renderer is set.
func (s *Session) print(md string) {
	if s.renderer != nil {
		rendered, err := s.renderer.Render(md)
		if err == nil {
			s.write(rendered)
			return
		}
		s.logger.Warn("Failed to render markdown, printing raw", zap.Error(err))
	}
	s.println(md)
}

func (s *Session) println(text string) {
	s.write(text + "\n")
}

func (s *Session) write(text string) {
	if _, err := io.WriteString(s.out, text); err != nil {
		s.logger.Debug("Failed to write output", zap.Error(err))
	}
}
