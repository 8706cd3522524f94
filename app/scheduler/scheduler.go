package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler triggers periodic ingestion runs. It complements the admin
// endpoint: both paths execute the same stateless run, so overlapping
// triggers are safe (the upsert key makes re-ingestion idempotent).
type Scheduler struct {
	run      func(ctx context.Context) (success bool, message string)
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func New(run func(ctx context.Context) (bool, string), interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		run:      run,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		slog.Info("Background ingestion disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("Background ingestion scheduler started", "interval", s.interval)

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				success, message := s.run(s.ctx)
				if success {
					slog.Info("Scheduled ingestion completed", "message", message)
				} else {
					slog.Warn("Scheduled ingestion completed with errors", "message", message)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
