package service

import (
	"database/sql"
	"errors"
	"testing"

	"mmr-balancer/internal/domain"
	"mmr-balancer/internal/rating"
	"mmr-balancer/internal/repository"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	players    map[int64]domain.Player
	order      []int64
	persistErr error
	fetchErr   error
}

func newMemoryStore(ratings ...float64) *memoryStore {
	s := &memoryStore{players: make(map[int64]domain.Player)}
	for i, r := range ratings {
		id := int64(i + 1)
		s.players[id] = domain.Player{ID: id, Name: "p" + string(rune('A'+i)), Rating: r}
		s.order = append(s.order, id)
	}
	return s
}

func (s *memoryStore) FetchPool(n int) ([]domain.Player, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []domain.Player
	for _, id := range s.order {
		if len(out) == n {
			break
		}
		out = append(out, s.players[id])
	}
	return out, nil
}

func (s *memoryStore) GetByIDs(ids []int64) ([]domain.Player, error) {
	out := make([]domain.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := s.players[id]
		if !ok {
			return nil, domain.ErrPlayerNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *memoryStore) Persist(players []domain.Player) error {
	if s.persistErr != nil {
		return s.persistErr
	}
	for _, p := range players {
		s.players[p.ID] = p
	}
	return nil
}

var sampleRatings = []float64{30, 28, 26, 24, 22, 20, 18, 16, 14, 10}

func newTestService(store PlayerStore) *MatchService {
	return NewMatchService(store, rating.NewUpdater(store, zap.NewNop()), zap.NewNop())
}

func TestPropose(t *testing.T) {
	svc := newTestService(newMemoryStore(sampleRatings...))

	lineup, err := svc.Propose()
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 5, 9, 10}, playerIDs(lineup.TeamA))
	assert.Equal(t, []int64{3, 4, 6, 7, 8}, playerIDs(lineup.TeamB))
}

func TestPropose_NotEnoughPlayers(t *testing.T) {
	svc := newTestService(newMemoryStore(1, 2, 3, 4, 5, 6, 7, 8, 9))

	_, err := svc.Propose()
	assert.ErrorIs(t, err, domain.ErrInvalidPoolSize)
}

func TestPropose_StoreError(t *testing.T) {
	store := newMemoryStore(sampleRatings...)
	store.fetchErr = errors.New("db closed")

	_, err := newTestService(store).Propose()
	assert.ErrorIs(t, err, store.fetchErr)
}

func TestLoad(t *testing.T) {
	store := newMemoryStore(sampleRatings...)
	svc := newTestService(store)

	lineup, err := svc.Load([]int64{1, 2, 5, 9, 10}, []int64{3, 4, 6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, 104.0, lineup.SumA())
	assert.Equal(t, 104.0, lineup.SumB())

	_, err = svc.Load([]int64{1, 2}, []int64{3})
	assert.ErrorIs(t, err, domain.ErrInvalidPoolSize)

	_, err = svc.Load([]int64{1, 2, 5, 9, 99}, []int64{3, 4, 6, 7, 8})
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestReport_TeamTwoMarginIsNegated(t *testing.T) {
	store := newMemoryStore(sampleRatings...)
	svc := newTestService(store)
	lineup, err := svc.Propose()
	require.NoError(t, err)

	after, err := svc.Report(lineup, 2, 5)
	require.NoError(t, err)

	for i, p := range after.TeamA {
		// -1.5 base, -1.0 margin, +0.2 participation
		assert.InDelta(t, lineup.TeamA[i].Rating-2.3, p.Rating, 1e-9)
		assert.Equal(t, "0000000000", p.History.String())
	}
	for i, p := range after.TeamB {
		// +1.0 base, +1.0 margin, -0.2 participation
		assert.InDelta(t, lineup.TeamB[i].Rating+1.8, p.Rating, 1e-9)
		assert.Equal(t, "1000000000", p.History.String())
	}
}

func TestReport_InvalidWinner(t *testing.T) {
	store := newMemoryStore(sampleRatings...)
	svc := newTestService(store)
	lineup, err := svc.Propose()
	require.NoError(t, err)

	_, err = svc.Report(lineup, 3, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidWinnerSelection)
	assert.Equal(t, 30.0, store.players[1].Rating)
}

func TestReport_PersistenceFailure(t *testing.T) {
	store := newMemoryStore(sampleRatings...)
	svc := newTestService(store)
	lineup, err := svc.Propose()
	require.NoError(t, err)
	store.persistErr = errors.New("read-only")

	_, err = svc.Report(lineup, 1, 5)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Equal(t, 30.0, store.players[1].Rating)
}

func TestMatchFlow_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(db, repository.Migrations(), zap.NewNop()))

	repo := repository.NewPlayerRepo(db)
	seed := make([]domain.Player, len(sampleRatings))
	for i, r := range sampleRatings {
		seed[i] = domain.Player{Name: "p" + string(rune('A'+i)), Rating: r, Server: "eu"}
	}
	_, err = repo.InsertMany(seed)
	require.NoError(t, err)

	svc := newTestService(repo)
	lineup, err := svc.Propose()
	require.NoError(t, err)
	require.Zero(t, lineup.Imbalance())

	_, err = svc.Report(lineup, 1, 5)
	require.NoError(t, err)

	stored, err := repo.GetByIDs([]int64{1, 3})
	require.NoError(t, err)
	// player 1 is on team 1 and won, player 3 is on team 2 and lost
	assert.Equal(t, 31.8, stored[0].Rating)
	assert.Equal(t, "1000000000", stored[0].History.String())
	assert.Equal(t, 23.7, stored[1].Rating)
	assert.Equal(t, "0000000000", stored[1].History.String())
}
