package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultInterval - период между циклами зеркалирования
const DefaultInterval = 10 * time.Second

// Ticker is one unit driven by the Scheduler.
type Ticker interface {
	PeerID() string
	Tick(ctx context.Context)
}

// Scheduler ticks every registered engine once per interval. Engines are
// ticked concurrently; a single engine is never ticked twice at the same time.
type Scheduler struct {
	logger        *slog.Logger
	engines       []Ticker
	interval      time.Duration
	maxConcurrent int
	mu            sync.Mutex
}

// NewScheduler creates a scheduler. maxConcurrent <= 0 means no limit.
func NewScheduler(interval time.Duration, maxConcurrent int, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		logger:        logger.With("component", "scheduler"),
		interval:      interval,
		maxConcurrent: maxConcurrent,
	}
}

// Add registers an engine.
func (s *Scheduler) Add(t Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engines = append(s.engines, t)
}

// Run ticks all engines every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Mirroring scheduler started",
		"interval", s.interval,
		"engines", len(s.snapshot()),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("Mirroring scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce ticks every engine once and waits for all of them.
func (s *Scheduler) RunOnce(ctx context.Context) {
	var g errgroup.Group
	if s.maxConcurrent > 0 {
		g.SetLimit(s.maxConcurrent)
	}

	for _, t := range s.snapshot() {
		g.Go(func() error {
			return s.tick(ctx, t)
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Mirroring round finished with errors", "error", err)
	}
}

// tick вызывает Tick и превращает панику в ошибку, не останавливая остальные движки
func (s *Scheduler) tick(ctx context.Context, t Ticker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic in mirroring engine",
				"peer", t.PeerID(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("engine %s panicked: %v", t.PeerID(), r)
		}
	}()

	if ctx.Err() != nil {
		return nil
	}
	t.Tick(ctx)
	return nil
}

// Statuses returns the status of every registered Engine.
func (s *Scheduler) Statuses() []Status {
	var result []Status
	for _, t := range s.snapshot() {
		if e, ok := t.(interface{ Status() Status }); ok {
			result = append(result, e.Status())
		}
	}
	return result
}

func (s *Scheduler) snapshot() []Ticker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Ticker(nil), s.engines...)
}
