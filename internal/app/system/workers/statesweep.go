// internal/app/system/workers/statesweep.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops idle entries and reports how many it dropped.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// StateSweep is a background worker that forgets the directory state of
// visitors who have been idle for longer than idle.
type StateSweep struct {
	states   Sweeper
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStateSweep creates the worker. It does nothing until Start.
func NewStateSweep(states Sweeper, logger *zap.Logger, interval, idle time.Duration) *StateSweep {
	return &StateSweep{
		states:   states,
		log:      logger,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (w *StateSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("view state sweep started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_ttl", w.idle))
}

// Stop signals the loop to end and waits for it. Safe to call twice.
func (w *StateSweep) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("view state sweep stopped")
	})
}

func (w *StateSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *StateSweep) sweep() {
	if n := w.states.Sweep(w.idle); n > 0 {
		w.log.Info("dropped idle view states", zap.Int("count", n))
	}
}
