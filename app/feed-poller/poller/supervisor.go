package poller

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	// restartWindow is how long the loop must survive for earlier failures to be forgiven
	restartWindow = 600 * time.Second
	// maxRestartAttempts is the number of backoff restarts allowed within one window
	maxRestartAttempts = 4
)

// restartPolicy tracks failures of the poll loop. Only attempt and windowStart survive restarts
type restartPolicy struct {
	window      time.Duration
	maxAttempts int
	attempt     int
	windowStart time.Time
}

func newRestartPolicy(now time.Time) *restartPolicy {
	return &restartPolicy{
		window:      restartWindow,
		maxAttempts: maxRestartAttempts,
		attempt:     1,
		windowStart: now,
	}
}

// onFailure decides what follows a loop failure at now. A failure more than window after windowStart
// starts a new window and restarts immediately, otherwise the loop is restarted after 2^attempt seconds
// until maxAttempts is used up, after which giveUp is true
func (p *restartPolicy) onFailure(now time.Time) (delay time.Duration, giveUp bool) {
	if now.Sub(p.windowStart) > p.window {
		p.attempt = 1
		p.windowStart = now
		return 0, false
	}
	if p.attempt <= p.maxAttempts {
		delay = time.Duration(1<<uint(p.attempt)) * time.Second
		p.attempt++
		return delay, false
	}
	return 0, true
}

// restarted marks the end of a backoff sleep
func (p *restartPolicy) restarted(now time.Time) {
	p.windowStart = now
}

type supervisorState int

const (
	stateRunning supervisorState = iota
	stateBackoff
	stateFailed
)

// Supervisor restarts a failing loop with exponential backoff
type Supervisor struct {
	log     *log.Logger
	metrics *Collector
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// MakeSupervisor creates a Supervisor. metrics may be nil
func MakeSupervisor(log *log.Logger, metrics *Collector) *Supervisor {
	return &Supervisor{
		log:     log,
		metrics: metrics,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Run calls loop until it returns nil or ctx is cancelled, restarting it on failure as decided by
// restartPolicy. returns an error wrapping the last loop failure once the restart budget is exhausted
func (s *Supervisor) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	policy := newRestartPolicy(s.now())
	state := stateRunning
	var lastErr error
	var delay time.Duration

	for {
		switch state {
		case stateRunning:
			err := loop(ctx)
			if ctx.Err() != nil || err == nil {
				return nil
			}
			lastErr = err
			s.log.Printf("poll loop failed, error:%v", err)

			var giveUp bool
			delay, giveUp = policy.onFailure(s.now())
			switch {
			case giveUp:
				state = stateFailed
			case delay == 0:
				s.log.Printf("last failure was over %s ago, restarting immediately", restartWindow)
				s.metrics.countRestart("immediate")
			default:
				state = stateBackoff
			}

		case stateBackoff:
			s.log.Printf("restarting poll loop in %s (attempt %d of %d)", delay, policy.attempt-1, policy.maxAttempts)
			s.metrics.countRestart("backoff")
			if err := s.sleep(ctx, delay); err != nil {
				return nil
			}
			policy.restarted(s.now())
			state = stateRunning

		case stateFailed:
			return fmt.Errorf("poll loop failed %d times within %s: %w", policy.maxAttempts+1, policy.window, lastErr)
		}
	}
}
