package recyclebin

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/logging"
)

// Sweeper purges expired bin records periodically.
type Sweeper struct {
	engine *Engine
	clock  Clock
	log    logging.Logger
}

func NewSweeper(engine *Engine, clock Clock, log logging.Logger) *Sweeper {
	return &Sweeper{engine: engine, clock: clock, log: log.With("component", "sweeper")}
}

// Run sweeps once right away and then on every tick until ctx is done.
// Sweep errors are logged and do not stop the loop.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	s.SweepOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce runs a single sweep and waits for it.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	n, err := s.engine.SweepExpired(ctx, s.clock.Now()).Wait(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error(ctx, "sweep failed", "err", err)
		}
		return 0
	}
	if n > 0 {
		s.log.Debug(ctx, "sweep finished", "purged", n)
	}
	return n
}
