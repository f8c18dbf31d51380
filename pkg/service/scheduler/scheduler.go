package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
	"github.com/robfig/cron/v3"
)

// TickFunc is invoked once per scheduler tick with the tick's wall time
type TickFunc func(ctx context.Context, now time.Time)

// Scheduler drives the periodic posting tick.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type Scheduler struct {
	tick     TickFunc
	interval time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
	cancel  context.CancelFunc

	// runMu enforces one tick at a time. A tick that fires while the
	// previous one still runs is dropped and counted, never queued.
	runMu sync.Mutex

	statsMu      sync.Mutex
	lastTick     time.Time
	tickCount    int64
	skippedCount int64
}

// Status is a point-in-time snapshot of the scheduler state
type Status struct {
	Running      bool          `json:"running"`
	Interval     time.Duration `json:"-"`
	IntervalStr  string        `json:"interval"`
	NextRun      time.Time     `json:"next_run,omitempty"`
	LastTick     time.Time     `json:"last_tick,omitempty"`
	TickCount    int64         `json:"tick_count"`
	SkippedCount int64         `json:"skipped_count"`
}

// New creates a scheduler that invokes tick every interval
func New(tick TickFunc, interval time.Duration) *Scheduler {
	return &Scheduler{
		tick:     tick,
		interval: interval,
	}
}

// Start begins firing ticks. It does not block and fails on double start.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return goerr.New("scheduler is already running")
	}
	if s.interval <= 0 {
		return goerr.New("tick interval must be positive", goerr.V("interval", s.interval))
	}

	tickCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	tickCtx = logging.With(tickCtx, logging.From(ctx))

	c := cron.New()
	entryID, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.fire(tickCtx)
	})
	if err != nil {
		cancel()
		return goerr.Wrap(err, "failed to register tick schedule", goerr.V("interval", s.interval))
	}

	s.cron = c
	s.entryID = entryID
	s.cancel = cancel
	s.running = true
	c.Start()

	logging.From(ctx).Info("Posting scheduler started", "interval", s.interval.String())
	return nil
}

// Stop halts the tick schedule and waits for an in-flight tick to drain.
// It is safe to call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	c := s.cron
	cancel := s.cancel
	s.running = false
	s.cron = nil
	s.cancel = nil
	s.mu.Unlock()

	logging.Default().Info("Posting scheduler stopping")

	// cron.Stop returns a context that is done once running jobs complete
	<-c.Stop().Done()
	cancel()

	logging.Default().Info("Posting scheduler stopped")
}

// fire runs one tick unless the previous tick is still in flight
func (s *Scheduler) fire(ctx context.Context) {
	if !s.runMu.TryLock() {
		s.statsMu.Lock()
		s.skippedCount++
		s.statsMu.Unlock()

		logging.From(ctx).Warn("Skipping tick, previous tick still running")
		return
	}
	defer s.runMu.Unlock()

	now := time.Now().UTC()

	s.statsMu.Lock()
	s.lastTick = now
	s.tickCount++
	s.statsMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("panic in scheduler tick", "panic", r)
		}
	}()

	s.tick(ctx, now)
}

// Status reports the current scheduler state
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	running := s.running
	c := s.cron
	entryID := s.entryID
	s.mu.Unlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	st := Status{
		Running:      running,
		Interval:     s.interval,
		IntervalStr:  s.interval.String(),
		LastTick:     s.lastTick,
		TickCount:    s.tickCount,
		SkippedCount: s.skippedCount,
	}
	if running && c != nil {
		st.NextRun = c.Entry(entryID).Next
	}
	return st
}
