package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Handler is one periodic unit of work. It receives the tick time and
// returns how many items it acted on, for logging.
type Handler func(ctx context.Context, now time.Time) int

type task struct {
	name     string
	interval time.Duration
	handler  Handler
}

// Scheduler runs registered tasks on fixed intervals. Ticks for the same
// task never overlap: a slow run simply delays the next tick. The clock is
// injectable so sweeps can be driven deterministically in tests.
type Scheduler struct {
	clock  clock.Clock
	logger *zap.Logger

	mu      sync.Mutex
	tasks   []task
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewScheduler creates a scheduler. A nil clk falls back to the wall clock.
func NewScheduler(clk clock.Clock, logger *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		clock:  clk,
		logger: logger,
	}
}

// Register adds a named task. Must be called before Start.
func (s *Scheduler) Register(name string, interval time.Duration, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task{name: name, interval: interval, handler: handler})
}

// Start launches one goroutine per task. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.run(ctx, t)
	}
	s.logger.Info("scheduler started", zap.Int("tasks", len(s.tasks)))
}

// Stop cancels all tasks and waits for in-flight runs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, t task) {
	defer s.wg.Done()

	ticker := s.clock.Ticker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, t, now)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, t task, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			// A panicking handler must not take the whole scheduler down.
			s.logger.Error("scheduled task panicked",
				zap.String("task", t.name), zap.Any("panic", r))
		}
	}()

	affected := t.handler(ctx, now)
	if affected > 0 {
		s.logger.Info("scheduled task ran",
			zap.String("task", t.name), zap.Int("affected", affected))
	}
}
