// Package scheduler runs the auto-cancellation sweeper on a fixed
// cadence.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/service"
	"github.com/iliyamo/hotel-room-reservation/internal/trace"
)

// Sweeper periodically cancels bank-transfer reservations that remain
// unpaid as their start date approaches. Each tick is fire-and-forget:
// a failed run is logged and the next tick reselects from scratch.
// Overlapping runs would reselect the same already-terminal rows
// harmlessly since the store predicate excludes non-pending rows.
type Sweeper struct {
	svc      *service.ReservationService
	interval time.Duration
}

// NewSweeper builds a Sweeper over the reservation service. Interval
// must be positive.
func NewSweeper(svc *service.ReservationService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{svc: svc, interval: interval}
}

// Run ticks until ctx is cancelled. Intended to be launched as a
// goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("sweeper: starting with interval %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single sweep with its own trace id and a bounded
// deadline so a stuck database cannot stall the tick loop forever.
func (s *Sweeper) runOnce(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(trace.WithID(ctx, trace.NewID()), time.Minute)
	defer cancel()

	count, err := s.svc.CancelOverduePending(tickCtx)
	if err != nil {
		log.Printf("sweeper: trace=%s run failed: %v", trace.FromContext(tickCtx), err)
		return
	}
	log.Printf("sweeper: trace=%s run complete, cancelled=%d", trace.FromContext(tickCtx), count)
}
