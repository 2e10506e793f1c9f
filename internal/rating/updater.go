// Package rating applies a reported match result to the ten players of a
// lineup and hands them to the store as one unit.
package rating

import (
	"fmt"
	"strconv"

	"mmr-balancer/internal/domain"

	"go.uber.org/zap"
)

// Persister stores updated players. Either every player is stored or none is.
type Persister interface {
	Persist(players []domain.Player) error
}

type Updater struct {
	store  Persister
	logger *zap.Logger
}

func NewUpdater(store Persister, logger *zap.Logger) *Updater {
	return &Updater{store: store, logger: logger}
}

// ApplyResult computes the new rating and history of every player in lineup
// and persists all of them in one call. scoreDifferential is seen from team 1
// (TeamA). The given lineup is left untouched; the updated one is returned
// only once the store accepted it.
func (u *Updater) ApplyResult(winner int, lineup domain.Lineup, scoreDifferential int) (domain.Lineup, error) {
	if winner != 1 && winner != 2 {
		return domain.Lineup{}, fmt.Errorf("%w: got %d", domain.ErrInvalidWinnerSelection, winner)
	}
	if len(lineup.TeamA) != domain.TeamSize || len(lineup.TeamB) != domain.TeamSize {
		return domain.Lineup{}, fmt.Errorf("%w: got %d+%d", domain.ErrInvalidPoolSize, len(lineup.TeamA), len(lineup.TeamB))
	}

	margin := float64(scoreDifferential)
	updated := domain.Lineup{
		TeamA: make([]domain.Player, len(lineup.TeamA)),
		TeamB: make([]domain.Player, len(lineup.TeamB)),
	}
	for i, p := range lineup.TeamA {
		updated.TeamA[i] = UpdatePlayer(p, winner == 1, margin)
	}
	for i, p := range lineup.TeamB {
		updated.TeamB[i] = UpdatePlayer(p, winner == 2, -margin)
	}

	if err := u.store.Persist(updated.Players()); err != nil {
		u.logger.Error("Failed to persist match result.",
			zap.Int("winner", winner), zap.Int("score_differential", scoreDifferential), zap.Error(err))
		return domain.Lineup{}, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}

	u.logger.Info("Match result applied.",
		zap.Int("winner", winner),
		zap.Int("score_differential", scoreDifferential),
		zap.Float64("team_a_before", lineup.SumA()),
		zap.Float64("team_a_after", updated.SumA()),
		zap.Float64("team_b_before", lineup.SumB()),
		zap.Float64("team_b_after", updated.SumB()))
	return updated, nil
}

// UpdatePlayer returns p after one match. signedMargin is the score
// differential from p's team point of view.
func UpdatePlayer(p domain.Player, won bool, signedMargin float64) domain.Player {
	delta := BaseDelta(p.History.Wins(), won) + signedMargin/marginDivisor
	if won {
		delta -= participationCost
	} else {
		delta += participationCost
	}

	p.Rating = roundTenth(p.Rating + delta)
	p.History = p.History.Push(won)
	return p
}

// roundTenth rounds the exact binary value of v to one decimal, ties to even.
func roundTenth(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
