package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	Prompt  = "rock, paper or scissors? "
	Goodbye = "Thanks for playing."
)

// Session is an interactive game on a line-oriented terminal.
type Session struct {
	in      io.Reader
	out     io.Writer
	chooser Chooser
	logger  *zap.Logger
	score   Score
}

func NewSession(in io.Reader, out io.Writer, chooser Chooser, logger *zap.Logger) *Session {
	if chooser == nil {
		chooser = RandomChooser{}
	}
	return &Session{in: in, out: out, chooser: chooser, logger: logger}
}

// Score returns the running score.
func (s *Session) Score() Score { return s.score }

// Run plays rounds until quit, end of input or ctx cancellation. On
// cancellation the input is closed when it is an io.Closer; otherwise the
// reader goroutine stays blocked until the input yields a line or ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Rock, paper, scissors. Type again to reset the score, quit to leave.")

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(s.in)
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
		fmt.Fprint(s.out, Prompt)
		select {
		case <-ctx.Done():
			s.closeInput()
			fmt.Fprintln(s.out, "\n"+Goodbye)
			return nil
		case err := <-readErr:
			fmt.Fprintln(s.out, "\n"+Goodbye)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			if !s.handleLine(strings.TrimSpace(line)) {
				return nil
			}
		}
	}
}

func (s *Session) closeInput() {
	if c, ok := s.in.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Debug("Failed to close input", zap.Error(err))
		}
	}
}

func (s *Session) handleLine(line string) bool {
	switch strings.ToLower(line) {
	case "":
		return true
	case "quit", "exit", "/exit":
		fmt.Fprintln(s.out, s.score)
		fmt.Fprintln(s.out, Goodbye)
		return false
	case "again":
		s.score = s.score.Reset()
		fmt.Fprintln(s.out, "Score reset.")
		return true
	}

	player, err := ParseChoice(line)
	if err != nil {
		fmt.Fprintln(s.out, "Please type rock, paper or scissors (r, p, s).")
		return true
	}

	computer := s.chooser.Choose()
	var outcome Outcome
	s.score, outcome = Play(s.score, player, computer)
	s.logger.Debug("Round played",
		zap.Stringer("player", player),
		zap.Stringer("computer", computer),
		zap.Stringer("outcome", outcome))

	fmt.Fprintf(s.out, "You chose %s, computer chose %s. %s\n", player, computer, outcome)
	fmt.Fprintln(s.out, s.score)
	return true
}
