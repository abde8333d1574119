package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"expensedash/internal/analytics"
	"expensedash/internal/cache"
	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/table"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	ErrUnknownChart  = errors.New("unknown chart")
	ErrUnknownFormat = errors.New("unknown export format")
)

// SnapshotSource hands out the snapshot the dashboard is computed from.
type SnapshotSource interface {
	Current(ctx context.Context) core.Snapshot
}

// DashboardConfig tunes aggregate memoization.
type DashboardConfig struct {
	CacheSize int
	CacheTTL  time.Duration
	Manager   *cache.Manager
	Logger    *log.Logger
	Now       func() time.Time
}

// SummaryView is the summary payload with the snapshot it came from.
type SummaryView struct {
	Stats    core.SummaryStats `json:"stats"`
	Range    core.DateRange    `json:"range"`
	Snapshot core.Snapshot     `json:"snapshot"`
}

// ChartsView carries every chart for a window.
type ChartsView struct {
	Charts   analytics.Charts `json:"charts"`
	Range    core.DateRange   `json:"range"`
	Snapshot core.Snapshot    `json:"snapshot"`
}

// TableView is one table page plus what the controls need to render.
type TableView struct {
	Page    table.Page          `json:"page"`
	State   table.ViewState     `json:"state"`
	Options table.FilterOptions `json:"options"`
	Range   core.DateRange      `json:"range"`
}

// Dashboard derives every dashboard payload from the current snapshot.
// Results are memoized per snapshot and date window, so a refresh
// invalidates them without explicit purging.
type Dashboard struct {
	source    SnapshotSource
	filtered  *cache.LRUCache[[]core.Expense]
	charts    *cache.LRUCache[analytics.Charts]
	summaries *cache.LRUCache[core.SummaryStats]
	logger    *log.Logger
	now       func() time.Time
}

// NewDashboard creates a dashboard over source.
func NewDashboard(source SnapshotSource, cfg DashboardConfig) *Dashboard {
	if cfg.CacheSize < 1 {
		cfg.CacheSize = 128
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default(log.ComponentDashboard)
	}
	d := &Dashboard{
		source:    source,
		filtered:  cache.NewLRUCache[[]core.Expense](cfg.CacheSize, cfg.CacheTTL),
		charts:    cache.NewLRUCache[analytics.Charts](cfg.CacheSize, cfg.CacheTTL),
		summaries: cache.NewLRUCache[core.SummaryStats](cfg.CacheSize, cfg.CacheTTL),
		logger:    logger.WithComponent(log.ComponentDashboard),
		now:       cfg.Now,
	}
	if cfg.Manager != nil {
		cfg.Manager.Register(d.filtered)
		cfg.Manager.Register(d.charts)
		cfg.Manager.Register(d.summaries)
	}
	return d
}

func cacheKey(snap core.Snapshot, r core.DateRange) string {
	return snap.ID + "|" + r.Key()
}

// Records returns the snapshot records inside r. The slice is shared with
// the cache and must not be modified.
func (d *Dashboard) Records(ctx context.Context, r core.DateRange) ([]core.Expense, core.Snapshot) {
	snap := d.source.Current(ctx)
	rows := d.filtered.GetOrCompute(cacheKey(snap, r), func() []core.Expense {
		d.logger.DebugContext(ctx, "filtering snapshot",
			log.FieldSnapshotID, snap.ID,
			log.FieldRangeStart, r.Start,
			log.FieldRangeEnd, r.End)
		return r.Filter(snap.Records)
	})
	return rows, snap
}

// Summary computes the summary stats for r. The month figure uses the
// calendar month containing the dashboard clock.
func (d *Dashboard) Summary(ctx context.Context, r core.DateRange) SummaryView {
	rows, snap := d.Records(ctx, r)
	now := d.now()
	key := cacheKey(snap, r) + "|" + now.Format("2006-01")
	stats := d.summaries.GetOrCompute(key, func() core.SummaryStats {
		return analytics.Summary(rows, now)
	})
	return SummaryView{Stats: stats, Range: r, Snapshot: snap}
}

// Charts builds every chart payload for r.
func (d *Dashboard) Charts(ctx context.Context, r core.DateRange) ChartsView {
	rows, snap := d.Records(ctx, r)
	charts := d.charts.GetOrCompute(cacheKey(snap, r), func() analytics.Charts {
		return analytics.All(rows)
	})
	return ChartsView{Charts: charts, Range: r, Snapshot: snap}
}

// Chart returns a single named chart for r.
func (d *Dashboard) Chart(ctx context.Context, name string, r core.DateRange) (core.ChartData, error) {
	rows, _ := d.Records(ctx, r)
	chart, ok := analytics.ByName(name, rows)
	if !ok {
		return core.ChartData{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return chart, nil
}

// Table applies state to the records inside r.
func (d *Dashboard) Table(ctx context.Context, r core.DateRange, state table.ViewState) TableView {
	rows, _ := d.Records(ctx, r)
	state = state.Sanitized()
	page, _ := table.View(rows, state)
	if page.CurrentPage != state.Page {
		state.Page = page.CurrentPage
	}
	return TableView{
		Page:    page,
		State:   state,
		Options: table.Options(rows),
		Range:   r,
	}
}

// Export writes the whole filtered and sorted view, ignoring pagination.
func (d *Dashboard) Export(ctx context.Context, w io.Writer, format string, r core.DateRange, state table.ViewState) error {
	rows, snap := d.Records(ctx, r)
	_, all := table.View(rows, state)

	var err error
	switch format {
	case FormatCSV:
		err = table.WriteCSV(w, all)
	case FormatXLSX:
		err = table.WriteXLSX(w, all)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	d.logger.InfoContext(ctx, "export written",
		log.FieldOperation, log.OpExport,
		log.FieldSnapshotID, snap.ID,
		log.FieldRecords, len(all))
	return nil
}
