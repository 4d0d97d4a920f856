package reminder

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Loop is the time-based trigger for daemon mode: it invokes RunOnce on a
// fixed cadence until the context is cancelled. There is no mid-run
// cancellation or checkpointing; a killed run leaves some matches unmarked
// and the next tick retries them.
type Loop struct {
	app      *App
	tracker  *HealthTracker
	interval time.Duration
	clock    clockwork.Clock
}

// NewLoop creates a trigger loop. The tracker may be nil when no health
// endpoint is served.
func NewLoop(app *App, tracker *HealthTracker, interval time.Duration) *Loop {
	return &Loop{
		app:      app,
		tracker:  tracker,
		interval: interval,
		clock:    clockwork.NewRealClock(),
	}
}

// Run fires an invocation immediately and then once per interval. It
// returns when the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	log.Info().Dur("interval", l.interval).Msg("reminder trigger loop started")

	timer := l.clock.NewTimer(l.interval)
	defer timer.Stop()

	for {
		summary, err := l.app.RunOnce(ctx)
		if l.tracker != nil {
			l.tracker.RecordRun(summary, err)
		}
		if err != nil {
			// Systemic failure: nothing was marked for unreached matches, the
			// next tick retries from scratch.
			log.Error().Err(err).Msg("reminder run failed")
		}

		// A run longer than the interval leaves a stale tick in the timer
		// channel; drain it so Reset measures a full interval from now.
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
		timer.Reset(l.interval)
		select {
		case <-timer.Chan():
		case <-ctx.Done():
			log.Info().Msg("reminder trigger loop stopped")
			return
		}
	}
}
