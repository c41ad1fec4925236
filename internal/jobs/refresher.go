package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"predictor/internal/service"
)

// Refresher keeps the leaderboard cache warm by recomputing it on an interval.
// Without it the first read after a result entry pays the full computation;
// with it that cost is usually absorbed in the background.
type Refresher struct {
	service  *service.CompetitionService
	interval time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	refreshes atomic.Int64
	errors    atomic.Int64
}

// RefresherConfig holds configuration for the refresher
type RefresherConfig struct {
	Interval time.Duration // Default: 30s
}

// NewRefresher creates a new leaderboard cache refresher
func NewRefresher(svc *service.CompetitionService, config RefresherConfig) *Refresher {
	if config.Interval == 0 {
		config.Interval = 30 * time.Second
	}
	return &Refresher{
		service:  svc,
		interval: config.Interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the refresh loop
func (r *Refresher) Start(ctx context.Context) error {
	if r.running.Load() {
		return fmt.Errorf("refresher already running")
	}
	r.running.Store(true)

	log.Printf("Leaderboard refresher started (interval: %v)", r.interval)

	r.wg.Add(1)
	go r.loop(ctx)
	return nil
}

// Stop gracefully stops the refresher
func (r *Refresher) Stop() {
	if !r.running.Load() {
		return
	}
	r.running.Store(false)
	close(r.stopCh)
	r.wg.Wait()

	log.Printf("Leaderboard refresher stopped (refreshes: %d, errors: %d)",
		r.refreshes.Load(), r.errors.Load())
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			// GetLeaderboard repopulates the cache on a miss; a warm cache
			// makes this a cheap no-op.
			if _, err := r.service.GetLeaderboard(ctx); err != nil {
				r.errors.Add(1)
				log.Printf("leaderboard refresh failed: %v", err)
				continue
			}
			r.refreshes.Add(1)
		}
	}
}
