package service

import (
	"fmt"

	"mmr-balancer/internal/balancer"
	"mmr-balancer/internal/domain"
	"mmr-balancer/internal/rating"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type PlayerStore interface {
	rating.Persister
	FetchPool(n int) ([]domain.Player, error)
	GetByIDs(ids []int64) ([]domain.Player, error)
}

// MatchService runs one match: read the pool, balance it, then apply the
// reported result.
type MatchService struct {
	store   PlayerStore
	updater *rating.Updater
	logger  *zap.Logger
}

func NewMatchService(store PlayerStore, updater *rating.Updater, logger *zap.Logger) *MatchService {
	return &MatchService{store: store, updater: updater, logger: logger}
}

func (s *MatchService) Propose() (domain.Lineup, error) {
	pool, err := s.store.FetchPool(domain.PoolSize)
	if err != nil {
		return domain.Lineup{}, fmt.Errorf("fetching player pool: %w", err)
	}
	lineup, err := balancer.Balance(pool)
	if err != nil {
		return domain.Lineup{}, err
	}
	s.logger.Debug("Lineup proposed.",
		zap.Int64s("team_a", playerIDs(lineup.TeamA)),
		zap.Int64s("team_b", playerIDs(lineup.TeamB)),
		zap.Float64("imbalance", lineup.Imbalance()))
	return lineup, nil
}

// Load rebuilds a lineup from stored player ids with current ratings.
func (s *MatchService) Load(teamA, teamB []int64) (domain.Lineup, error) {
	if len(teamA) != domain.TeamSize || len(teamB) != domain.TeamSize {
		return domain.Lineup{}, fmt.Errorf("%w: got %d+%d", domain.ErrInvalidPoolSize, len(teamA), len(teamB))
	}
	ids := append(append([]int64(nil), teamA...), teamB...)
	players, err := s.store.GetByIDs(ids)
	if err != nil {
		return domain.Lineup{}, err
	}
	return domain.Lineup{TeamA: players[:domain.TeamSize], TeamB: players[domain.TeamSize:]}, nil
}

// Report applies a result where margin is the winner's score advantage.
func (s *MatchService) Report(lineup domain.Lineup, winner, margin int) (domain.Lineup, error) {
	if winner != 1 && winner != 2 {
		return domain.Lineup{}, fmt.Errorf("%w: got %d", domain.ErrInvalidWinnerSelection, winner)
	}
	return s.updater.ApplyResult(winner, lineup, domain.SignedDifferential(winner, margin))
}

func playerIDs(team []domain.Player) []int64 {
	return lo.Map(team, func(p domain.Player, _ int) int64 { return p.ID })
}
