package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedash/internal/analytics"
	"expensedash/internal/cache"
	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/sheets/memory"
	"expensedash/internal/table"
)

var jan20 = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func newSampleDashboard(t *testing.T) (*Dashboard, *Ingestor) {
	t.Helper()
	ing := NewIngestor(memory.NewSample(), core.SourceSample, WithLogger(log.Discard()))
	d := NewDashboard(ing, DashboardConfig{
		Logger: log.Discard(),
		Now:    func() time.Time { return jan20 },
	})
	return d, ing
}

func TestDashboardSummarySample(t *testing.T) {
	d, _ := newSampleDashboard(t)

	view := d.Summary(context.Background(), core.DateRange{})
	s := view.Stats

	assert.InDelta(t, 686.72, s.TotalSpend, 1e-9)
	assert.InDelta(t, 686.72, s.MonthlySpend, 1e-9)
	assert.InDelta(t, 207.04, s.AvoidableSpend, 1e-9)
	assert.InDelta(t, 479.68, s.NonAvoidableSpend, 1e-9)
	assert.Equal(t, "Shopping", s.TopCategory)
	assert.Equal(t, "Credit Card", s.TopPaymentMode)
	assert.True(t, view.Snapshot.UsingSample)
}

func TestDashboardDateRange(t *testing.T) {
	d, _ := newSampleDashboard(t)
	r := core.DateRange{Start: "2024-01-10", End: "2024-01-12"}

	rows, _ := d.Records(context.Background(), r)
	require.Len(t, rows, 3)

	s := d.Summary(context.Background(), r).Stats
	assert.InDelta(t, 129.05, s.TotalSpend, 1e-9)
	assert.Equal(t, 3, s.TransactionCount)
}

func TestDashboardInvalidBoundExcludesRecords(t *testing.T) {
	d, _ := newSampleDashboard(t)

	rows, _ := d.Records(context.Background(), core.DateRange{Start: "2024-13-01", End: "2024-01-31"})
	assert.Empty(t, rows)

	s := d.Summary(context.Background(), core.DateRange{Start: "2024-13-01", End: "2024-01-31"}).Stats
	assert.Equal(t, core.NotAvailable, s.TopCategory)
}

func TestDashboardMemoizesPerSnapshot(t *testing.T) {
	d, ing := newSampleDashboard(t)
	ctx := context.Background()

	first := d.Charts(ctx, core.DateRange{})
	again := d.Charts(ctx, core.DateRange{})
	assert.Equal(t, first.Snapshot.ID, again.Snapshot.ID)
	assert.Equal(t, uint64(1), d.charts.Stats().Hits)

	ing.Refresh(ctx)
	after := d.Charts(ctx, core.DateRange{})
	assert.NotEqual(t, first.Snapshot.ID, after.Snapshot.ID)
	assert.Equal(t, first.Charts.Category.Labels, after.Charts.Category.Labels)
}

func TestDashboardRegistersCaches(t *testing.T) {
	ing := NewIngestor(memory.NewSample(), core.SourceSample, WithLogger(log.Discard()))
	mgr := cache.NewManager(log.Discard())
	defer mgr.Stop()

	d := NewDashboard(ing, DashboardConfig{Manager: mgr, CacheTTL: time.Minute, Logger: log.Discard()})
	d.Summary(context.Background(), core.DateRange{})

	assert.Equal(t, 0, mgr.Sweep())
}

func TestDashboardChart(t *testing.T) {
	d, _ := newSampleDashboard(t)
	ctx := context.Background()

	chart, err := d.Chart(ctx, analytics.ChartPaymentMode, core.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Credit Card", "Cash", "Debit Card", "UPI"}, chart.Labels)

	_, err = d.Chart(ctx, "pie", core.DateRange{})
	assert.True(t, errors.Is(err, ErrUnknownChart))
}

func TestDashboardTable(t *testing.T) {
	d, _ := newSampleDashboard(t)

	state := table.DefaultViewState()
	state.Filters.Category = "Food"
	view := d.Table(context.Background(), core.DateRange{}, state)

	assert.Equal(t, 3, view.Page.TotalCount)
	assert.Equal(t, 1, view.Page.PageCount)
	require.Len(t, view.Page.Rows, 3)
	assert.Equal(t, "2024-01-15", view.Page.Rows[0].Date)
	assert.Equal(t, []string{"Food", "Transport", "Shopping", "Entertainment", "Bills", "Health"}, view.Options.Categories)
}

func TestDashboardTableClampsPage(t *testing.T) {
	d, _ := newSampleDashboard(t)

	state := table.DefaultViewState()
	state.Page = 99
	view := d.Table(context.Background(), core.DateRange{}, state)

	assert.Equal(t, 2, view.Page.CurrentPage)
	assert.Equal(t, 2, view.State.Page)
	assert.Len(t, view.Page.Rows, 5)
}

func TestDashboardExportCSV(t *testing.T) {
	d, _ := newSampleDashboard(t)

	state := table.DefaultViewState()
	state.Filters.Category = "Food"
	state.SortField = "amount"
	state.SortDir = table.Asc

	var buf bytes.Buffer
	require.NoError(t, d.Export(context.Background(), &buf, FormatCSV, core.DateRange{}, state))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Mode,Category,Sub Category,For,Amount,Description,Priority,Avoidable,Frequency", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-05,Cash,Food,Cafe,Beverage,4.5,"))
	assert.True(t, strings.HasPrefix(lines[3], "2024-01-15,Credit Card,Food,"))
}

func TestDashboardExportXLSX(t *testing.T) {
	d, _ := newSampleDashboard(t)

	var buf bytes.Buffer
	require.NoError(t, d.Export(context.Background(), &buf, FormatXLSX, core.DateRange{}, table.DefaultViewState()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestDashboardExportUnknownFormat(t *testing.T) {
	d, _ := newSampleDashboard(t)

	err := d.Export(context.Background(), &bytes.Buffer{}, "pdf", core.DateRange{}, table.DefaultViewState())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
