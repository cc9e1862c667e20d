package ratelimit

import (
	"context"
	"time"

	"github.com/lukebdev/termlink/pkg/log"
)

// Sweeper runs the limiter's bucket eviction on a ticker. It is an
// explicit, cancellable service rather than an ambient timer.
type Sweeper struct {
	limiter  *Limiter
	interval time.Duration
	done     chan struct{}
}

func NewSweeper(limiter *Limiter, interval time.Duration) *Sweeper {
	return &Sweeper{
		limiter:  limiter,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	log.FromCtx(ctx).Debug().Dur("interval", s.interval).Msg("starting rate limit sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.limiter.Sweep()
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}
