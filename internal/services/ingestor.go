package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/sheets"
	"expensedash/internal/sheets/memory"
)

// Notifier is told about every completed ingestion cycle.
type Notifier interface {
	NotifyRefreshed(ctx context.Context, snap core.Snapshot) error
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithNotifier publishes each new snapshot.
func WithNotifier(n Notifier) IngestorOption {
	return func(i *Ingestor) { i.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) IngestorOption {
	return func(i *Ingestor) {
		if l != nil {
			i.logger = l.WithComponent(log.ComponentIngest)
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) IngestorOption {
	return func(i *Ingestor) { i.now = now }
}

// WithFallback replaces the sample set substituted when the source fails.
func WithFallback(r sheets.ExpenseReader) IngestorOption {
	return func(i *Ingestor) { i.fallback = r }
}

// Ingestor owns the current snapshot. Refresh never fails outward: a source
// error is logged and the sample set takes its place.
type Ingestor struct {
	reader   sheets.ExpenseReader
	kind     core.SourceKind
	fallback sheets.ExpenseReader
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current core.Snapshot
	ready   bool
}

// NewIngestor creates an ingestor reading from reader. kind is reported on
// snapshots produced from it.
func NewIngestor(reader sheets.ExpenseReader, kind core.SourceKind, opts ...IngestorOption) *Ingestor {
	i := &Ingestor{
		reader:   reader,
		kind:     kind,
		fallback: memory.NewSample(),
		logger:   log.Default(log.ComponentIngest),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.kind == "" {
		if named, ok := reader.(sheets.Named); ok {
			i.kind = named.Kind()
		}
	}
	return i
}

// Refresh runs one ingestion cycle and returns the resulting snapshot.
// Concurrent callers share a single fetch.
func (i *Ingestor) Refresh(ctx context.Context) core.Snapshot {
	// The shared fetch must not die with the first caller's context.
	shared := context.WithoutCancel(ctx)
	v, _, _ := i.group.Do("refresh", func() (any, error) {
		return i.refresh(shared), nil
	})
	return v.(core.Snapshot)
}

func (i *Ingestor) refresh(ctx context.Context) core.Snapshot {
	start := i.now()
	snap := core.Snapshot{
		ID:     uuid.NewString(),
		Source: i.kind,
	}

	records, err := i.reader.ReadExpenses(ctx)
	if err != nil {
		i.logger.WarnContext(ctx, "source unavailable, using sample data",
			log.FieldOperation, log.OpFallback,
			log.FieldSource, string(i.kind),
			log.FieldError, err.Error())
		records, err = i.fallback.ReadExpenses(ctx)
		if err != nil {
			i.logger.ErrorContext(ctx, "fallback source failed",
				log.FieldOperation, log.OpFallback,
				log.FieldError, err.Error())
			records = nil
		}
		snap.Source = core.SourceSample
	}
	if records == nil {
		records = []core.Expense{}
	}
	snap.Records = records
	snap.UsingSample = snap.Source == core.SourceSample
	snap.FetchedAt = i.now()

	i.mu.Lock()
	i.current = snap
	i.ready = true
	i.mu.Unlock()

	log.NewStructuredLogger(i.logger).LogRefresh(ctx, log.SnapshotInfo{
		ID:          snap.ID,
		Source:      string(snap.Source),
		Records:     snap.Len(),
		UsingSample: snap.UsingSample,
	}, 0)
	i.logger.DebugContext(ctx, "refresh timing",
		log.FieldDuration, i.now().Sub(start).Milliseconds())

	if i.notifier != nil {
		if err := i.notifier.NotifyRefreshed(ctx, snap); err != nil {
			i.logger.WarnContext(ctx, "refresh notification failed",
				log.FieldOperation, log.OpPublish,
				log.FieldSnapshotID, snap.ID,
				log.FieldError, err.Error())
		}
	}
	return snap
}

// Snapshot returns the current snapshot. ok is false before the first refresh.
func (i *Ingestor) Snapshot() (core.Snapshot, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.current, i.ready
}

// Current returns the current snapshot, refreshing first if there is none.
func (i *Ingestor) Current(ctx context.Context) core.Snapshot {
	if snap, ok := i.Snapshot(); ok {
		return snap
	}
	return i.Refresh(ctx)
}

// Ready reports whether a snapshot has been produced.
func (i *Ingestor) Ready() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ready
}
