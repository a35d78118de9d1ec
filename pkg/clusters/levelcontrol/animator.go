package levelcontrol

import (
	"sync"
	"time"

	"github.com/pion/logging"
)

// DefaultTickInterval is the animation step period.
const DefaultTickInterval = 100 * time.Millisecond

// animator drives timed level transitions. At most one transition runs
// at a time; starting a new one replaces the running one.
type animator struct {
	cluster *Cluster
	tick    time.Duration
	log     logging.LeveledLogger

	mu     sync.Mutex
	cancel chan struct{}
	done   chan struct{}
}

func newAnimator(c *Cluster, tick time.Duration, log logging.LeveledLogger) *animator {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	return &animator{cluster: c, tick: tick, log: log}
}

// start begins a transition to target over the given duration. A zero
// duration applies the target immediately. onComplete runs after the
// target level is reached, not after a replacement or stop.
func (a *animator) start(target uint8, duration time.Duration, onComplete func()) {
	a.stop()

	if duration <= 0 {
		a.cluster.setLevel(target, 0)
		a.cluster.syncStored()
		if onComplete != nil {
			onComplete()
		}
		return
	}

	start := a.cluster.CurrentLevel()
	if start == target {
		a.cluster.setLevel(target, 0)
		a.cluster.syncStored()
		if onComplete != nil {
			onComplete()
		}
		return
	}

	cancel := make(chan struct{})
	done := make(chan struct{})

	a.mu.Lock()
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	go a.run(start, target, duration, onComplete, cancel, done)
}

// stop cancels the running transition, if any, and waits for its
// goroutine to exit. The level stays wherever the animation left it.
func (a *animator) stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	close(cancel)
	<-done
}

// run interpolates the level linearly from start to target over the
// duration, updating the remaining time on every tick.
func (a *animator) run(start, target uint8, duration time.Duration, onComplete func(), cancel, done chan struct{}) {
	defer close(done)

	began := time.Now()
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			elapsed := time.Since(began)
			if elapsed >= duration {
				a.cluster.setLevel(target, 0)
				a.cluster.syncStored()
				if onComplete != nil {
					onComplete()
				}
				return
			}

			frac := float64(elapsed) / float64(duration)
			span := float64(target) - float64(start)
			level := uint8(float64(start) + span*frac)
			remaining := uint16((duration - elapsed) / transitionUnit)
			a.cluster.setLevel(level, remaining)
		}
	}
}
