// Package game implements rock-paper-scissors against the computer.
package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type Choice int

const (
	Rock Choice = iota
	Paper
	Scissors
)

var choiceNames = [...]string{"rock", "paper", "scissors"}

func (c Choice) String() string {
	if c < Rock || c > Scissors {
		return fmt.Sprintf("Choice(%d)", int(c))
	}
	return choiceNames[c]
}

// beats reports whether c wins against other.
func (c Choice) beats(other Choice) bool {
	return (c == Rock && other == Scissors) ||
		(c == Scissors && other == Paper) ||
		(c == Paper && other == Rock)
}

// ParseChoice accepts a full name or its first letter, in any case.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, nil
	case "paper", "p":
		return Paper, nil
	case "scissors", "s":
		return Scissors, nil
	}
	return 0, fmt.Errorf("unknown choice %q", s)
}

type Outcome int

const (
	Draw Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "You win!"
	case Lose:
		return "You lose."
	default:
		return "It's a draw."
	}
}

// Score counts rounds since the last reset.
type Score struct {
	Turns    int
	Player   int
	Computer int
	Draws    int
}

func (s Score) String() string {
	return fmt.Sprintf("Score: you %d, computer %d, draws %d (%d turns)", s.Player, s.Computer, s.Draws, s.Turns)
}

// Reset starts a new game.
func (s Score) Reset() Score { return Score{} }

// Play scores one round. It does not modify s.
func Play(s Score, player, computer Choice) (Score, Outcome) {
	s.Turns++
	switch {
	case player == computer:
		s.Draws++
		return s, Draw
	case player.beats(computer):
		s.Player++
		return s, Win
	default:
		s.Computer++
		return s, Lose
	}
}

type Chooser interface {
	Choose() Choice
}

// RandomChooser picks uniformly from the three choices.
type RandomChooser struct{}

func (RandomChooser) Choose() Choice {
	return Choice(rand.IntN(3))
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func() Choice

func (f ChooserFunc) Choose() Choice { return f() }
