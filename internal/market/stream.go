package market

import (
	"context"
	"log"
	"time"

	"quant_trader/internal/models"
)

// StreamHandler is a callback for snapshot updates. Returning an error stops
// the stream.
type StreamHandler func(snap *models.MarketSnapshot) error

// Streamer pushes venue snapshots for one symbol at a fixed interval.
type Streamer struct {
	venue    Venue
	interval time.Duration
}

func NewStreamer(venue Venue, interval time.Duration) *Streamer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Streamer{venue: venue, interval: interval}
}

// Run sends a first snapshot immediately, then one per tick, until ctx is
// done or the handler fails. Snapshot errors are logged and skipped.
func (s *Streamer) Run(ctx context.Context, symbol string, handler StreamHandler) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		snap, err := s.venue.Snapshot(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("WARN: %s snapshot for %s failed: %v", s.venue.Mode(), symbol, err)
		} else if err := handler(snap); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
