/*
scheduler.go - Automated settlement period closing

PURPOSE:
  Periodically closes open settlement periods whose end date is more than
  a grace period in the past, so month-end books get locked without an
  operator remembering to do it.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Closes through ledger.Settlement, so snapshots and the
    compare-and-set behave exactly as a manual close
  - A period closed concurrently by someone else is skipped, not an error

CONFIGURATION:
  - CheckInterval: How often to check (AUTO_CLOSE_INTERVAL, 0 = disabled)
  - Grace:         How long after EndDate a period stays open (AUTO_CLOSE_GRACE)

USAGE:
  scheduler := NewCloseScheduler(handler.Settlement, time.Hour, 72*time.Hour, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ClosePeriod endpoint (manual close)
  - ledger/settlement.go: the state machine
*/
package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/consignflow/ledger"
)

// CloseScheduler closes expired settlement periods in the background.
type CloseScheduler struct {
	Settlement    *ledger.Settlement
	CheckInterval time.Duration
	Grace         time.Duration
	Now           func() time.Time
	Log           zerolog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCloseScheduler creates a new scheduler. A zero interval disables it.
func NewCloseScheduler(settlement *ledger.Settlement, interval, grace time.Duration, log zerolog.Logger) *CloseScheduler {
	return &CloseScheduler{
		Settlement:    settlement,
		CheckInterval: interval,
		Grace:         grace,
		Now:           time.Now,
		Log:           log.With().Str("component", "close-scheduler").Logger(),
	}
}

// Start begins the scheduler.
func (cs *CloseScheduler) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.CheckInterval <= 0 {
		cs.Log.Info().Msg("disabled, not starting")
		return
	}
	if cs.ticker != nil {
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.stop = make(chan struct{})
	cs.wg.Add(1)

	go cs.run()

	cs.Log.Info().Dur("interval", cs.CheckInterval).Dur("grace", cs.Grace).Msg("started")
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (cs *CloseScheduler) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		cs.ticker = nil
		cs.Log.Info().Msg("stopped")
	}
}

func (cs *CloseScheduler) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.CloseExpired(context.Background())

	for {
		select {
		case <-cs.ticker.C:
			cs.CloseExpired(context.Background())
		case <-cs.stop:
			return
		}
	}
}

// CloseExpired closes every open period whose EndDate is before now - Grace
// and returns the ids it closed.
func (cs *CloseScheduler) CloseExpired(ctx context.Context) []ledger.PeriodID {
	cutoff := ledger.FromTime(cs.Now().Add(-cs.Grace))

	open := ledger.StatusOpen
	periods, err := cs.Settlement.ListPeriods(ctx, ledger.PeriodFilter{Status: &open})
	if err != nil {
		cs.Log.Error().Err(err).Msg("failed to list open periods")
		return nil
	}

	var closed []ledger.PeriodID
	for _, p := range periods {
		if p.EndDate >= cutoff {
			continue
		}
		if _, err := cs.Settlement.ClosePeriod(ctx, p.ID); err != nil {
			if errors.Is(err, ledger.ErrAlreadyClosed) {
				continue
			}
			cs.Log.Error().Err(err).Uint64("period_id", uint64(p.ID)).Msg("failed to close period")
			continue
		}
		closed = append(closed, p.ID)
	}
	if len(closed) > 0 {
		cs.Log.Info().Int("closed", len(closed)).Msg("closed expired settlement periods")
	}
	return closed
}
