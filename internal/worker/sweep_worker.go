package worker

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pmdash/internal/repository"
)

// SweepWorker periodically drops expired upload slots from a store that
// does not expire them on its own.
type SweepWorker struct {
	store     repository.Sweeper
	interval  time.Duration
	stopChan  chan struct{}
	mu        sync.Mutex
	isRunning bool
}

func NewSweepWorker(store repository.Sweeper, interval time.Duration) *SweepWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SweepWorker{
		store:    store,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *SweepWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isRunning {
		return
	}

	w.isRunning = true
	log.Info().Dur("interval", w.interval).Msg("upload sweeper started")

	go w.run()
}

func (w *SweepWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isRunning {
		return
	}

	close(w.stopChan)
	w.isRunning = false
	log.Info().Msg("upload sweeper stopped")
}

func (w *SweepWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.store.Sweep(); n > 0 {
				log.Debug().Int("slots", n).Msg("expired uploads removed")
			}
		case <-w.stopChan:
			return
		}
	}
}
