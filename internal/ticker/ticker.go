package ticker

import (
	"context"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/listview"
	"github.com/dennisdiepolder/monti/dashboard/internal/metrics"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/rs/zerolog"
)

// Source builds the current dashboard summary
type Source interface {
	Snapshot(ctx context.Context) (types.DashboardSnapshot, error)
}

// Publisher delivers snapshots to live clients
type Publisher interface {
	PublishSnapshot(s types.DashboardSnapshot)
	ClientCount() int
}

// Ticker periodically broadcasts dashboard snapshots to the hub
type Ticker struct {
	source   Source
	hub      Publisher
	interval time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	seq      listview.Sequencer
}

// NewTicker creates a new Ticker. m may be nil.
func NewTicker(source Source, hub Publisher, interval time.Duration, logger zerolog.Logger, m *metrics.Metrics) *Ticker {
	return &Ticker{
		source:   source,
		hub:      hub,
		interval: interval,
		logger:   logger.With().Str("component", "ticker").Logger(),
		metrics:  m,
	}
}

// Start begins broadcasting snapshots and blocks until ctx is done. Each
// tick builds its snapshot in the background; a build that finishes after
// a newer one has started is discarded.
func (t *Ticker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("ticker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case <-ticker.C:
			if t.hub.ClientCount() == 0 {
				continue
			}
			go t.Tick(ctx)
		}
	}
}

// Tick builds and publishes one snapshot. It reports whether the snapshot
// was published.
func (t *Ticker) Tick(ctx context.Context) bool {
	seq := t.seq.Next()

	snap, err := t.source.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			t.logger.Error().Err(err).Msg("failed to build snapshot")
		}
		return false
	}
	if !t.seq.Current(seq) {
		t.logger.Debug().Uint64("seq", seq).Msg("discarding stale snapshot")
		return false
	}

	t.hub.PublishSnapshot(snap)
	t.metrics.RecordSnapshot()
	t.logger.Debug().
		Int("active_calls", snap.ActiveCalls).
		Int("clients", t.hub.ClientCount()).
		Msg("broadcasted snapshot")
	return true
}
