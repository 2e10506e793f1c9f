// Package importer seeds an empty player store from a comma separated text
// file with one "name, rating, server, history" record per line.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mmr-balancer/internal/domain"

	"go.uber.org/zap"
)

const minFields = 4

type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

func ParseLine(line string) (domain.Player, error) {
	parts := strings.Split(line, ",")
	if len(parts) < minFields {
		return domain.Player{}, fmt.Errorf("want %d fields, got %d", minFields, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" {
		return domain.Player{}, fmt.Errorf("empty name")
	}
	rating, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Player{}, fmt.Errorf("rating %q: %w", parts[1], err)
	}
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return domain.Player{}, fmt.Errorf("rating %q is not finite", parts[1])
	}
	history, err := domain.ParseHistory(parts[3])
	if err != nil {
		return domain.Player{}, err
	}

	return domain.Player{
		Name:    parts[0],
		Rating:  rating,
		Server:  parts[2],
		History: history,
	}, nil
}

// Parse reads every record of r. Blank lines are ignored and malformed ones
// are reported in skipped without stopping the import.
func Parse(r io.Reader) (players []domain.Player, skipped []LineError, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		p, err := ParseLine(text)
		if err != nil {
			skipped = append(skipped, LineError{Line: lineNo, Text: text, Err: err})
			continue
		}
		players = append(players, p)
	}
	return players, skipped, scanner.Err()
}

type Store interface {
	Count() (int, error)
	InsertMany(players []domain.Player) ([]domain.Player, error)
}

type Importer struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// LoadIfEmpty imports path when the store has no players yet and returns the
// number of players added.
func (im *Importer) LoadIfEmpty(path string) (int, error) {
	n, err := im.store.Count()
	if err != nil {
		return 0, fmt.Errorf("counting players: %w", err)
	}
	if n > 0 {
		im.logger.Info("Players already stored, skipping import.", zap.Int("players", n))
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening player file: %w", err)
	}
	defer f.Close()

	players, skipped, err := Parse(f)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	for _, le := range skipped {
		im.logger.Warn("Skipping malformed player record.",
			zap.String("file", path), zap.Int("line", le.Line), zap.String("text", le.Text), zap.Error(le.Err))
	}
	if len(players) == 0 {
		return 0, nil
	}

	stored, err := im.store.InsertMany(players)
	if err != nil {
		return 0, fmt.Errorf("storing imported players: %w", err)
	}
	im.logger.Info("Imported players.", zap.String("file", path), zap.Int("players", len(stored)), zap.Int("skipped", len(skipped)))
	return len(stored), nil
}
