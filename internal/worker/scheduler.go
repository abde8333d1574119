// Package worker runs background refreshes of the dataset.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"expensedash/internal/core"
	"expensedash/internal/log"
)

var ErrAlreadyRunning = errors.New("scheduler already running")

// Refresher runs one ingestion cycle.
type Refresher interface {
	Refresh(ctx context.Context) core.Snapshot
}

// Scheduler triggers refreshes on a cron schedule.
type Scheduler struct {
	refresher Refresher
	spec      string
	logger    *log.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	runs    int
}

// NewScheduler validates spec (standard five-field cron or a descriptor
// such as "@every 15m") and returns a stopped scheduler.
func NewScheduler(refresher Refresher, spec string, logger *log.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = log.Default(log.ComponentWorker)
	}
	return &Scheduler{
		refresher: refresher,
		spec:      spec,
		logger:    logger.WithComponent(log.ComponentWorker),
	}, nil
}

// Start schedules the refresh job. Runs are skipped while the previous one
// is still in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	c.Start()
	s.cron = c
	s.running = true

	s.logger.InfoContext(ctx, "refresh scheduler started", "schedule", s.spec)
	return nil
}

// RunNow performs one refresh immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) core.Snapshot {
	return s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) core.Snapshot {
	snap := s.refresher.Refresh(ctx)
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "scheduled refresh finished",
		log.FieldSnapshotID, snap.ID,
		log.FieldRecords, snap.Len())
	return snap
}

// Stop removes the schedule and waits for a running refresh, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	c := s.cron
	s.running = false
	s.cron = nil
	s.mu.Unlock()

	select {
	case <-c.Stop().Done():
		s.logger.InfoContext(ctx, "refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "refresh scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the schedule is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Runs returns how many refreshes the scheduler has performed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
