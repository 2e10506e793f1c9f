package scheduler

import (
	"context"
	"sync"
	"time"

	"mmr-balancer/internal/cache"

	"go.uber.org/zap"
)

// Scheduler periodically drops stale pending lineups and snapshots the rest
// so that a restart does not lose them.
type Scheduler struct {
	pending  *cache.PendingLineups
	path     string
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(
	pending *cache.PendingLineups,
	path string,
	ttl time.Duration,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pending:  pending,
		path:     path,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
}

// Stop ends the loop and writes a final snapshot.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.snapshot()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	if n := s.pending.Expire(s.ttl); n > 0 {
		s.logger.Info("Expired pending lineups.", zap.Int("count", n), zap.Duration("ttl", s.ttl))
	}
	s.snapshot()
}

func (s *Scheduler) snapshot() {
	if err := s.pending.SaveToFile(s.path); err != nil {
		s.logger.Warn("Failed to save pending lineups.", zap.String("path", s.path), zap.Error(err))
	}
}
