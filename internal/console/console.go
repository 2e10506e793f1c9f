// Package console is the interactive text front end: it shows the balanced
// teams, asks for the result and prints the new ratings.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mmr-balancer/internal/domain"
	"mmr-balancer/internal/service"
)

type Matches interface {
	Propose() (domain.Lineup, error)
	Report(lineup domain.Lineup, winner, margin int) (domain.Lineup, error)
}

type Session struct {
	matches Matches
	in      *bufio.Scanner
	out     io.Writer
}

func NewSession(matches Matches, in io.Reader, out io.Writer) *Session {
	return &Session{matches: matches, in: bufio.NewScanner(in), out: out}
}

const rule = "========================================"

// Run plays one match from proposal to stored result.
func (s *Session) Run() error {
	lineup, err := s.matches.Propose()
	if errors.Is(err, domain.ErrInvalidPoolSize) {
		fmt.Fprintf(s.out, "Not enough players in storage (%d required).\n", domain.PoolSize)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\n%s\n%s%s\n\n", rule, service.FormatLineup(lineup), rule)

	winner, err := s.askInt("Which team won? (1 or 2): ")
	if err != nil {
		return err
	}
	if winner != 1 && winner != 2 {
		fmt.Fprintln(s.out, "Invalid team selection.")
		return fmt.Errorf("%w: got %d", domain.ErrInvalidWinnerSelection, winner)
	}

	margin, err := s.askInt("Score difference (e.g. 3): ")
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "\nUpdating ratings...")
	after, err := s.matches.Report(lineup, winner, margin)
	if err != nil {
		fmt.Fprintln(s.out, "Result was not saved, ratings are unchanged.")
		return err
	}

	fmt.Fprintf(s.out, "\n--- RESULTS ---\n%s\nRatings saved.\n", service.FormatChanges(lineup, after))
	return nil
}

func (s *Session) askInt(prompt string) (int, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	text := strings.TrimSpace(s.in.Text())
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Fprintln(s.out, "Please enter a whole number.")
		return 0, fmt.Errorf("%w: %q", service.ErrInvalidInput, text)
	}
	return n, nil
}
