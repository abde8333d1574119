package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/core"
	"expensedash/internal/services"
)

// rangeFlags select a date window the same way the API query does.
type rangeFlags struct {
	start, end, quick string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "window end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.quick, "range", "", "named window: current-month, last-month, last-3-months, current-year")
}

func (f *rangeFlags) resolve(now time.Time) core.DateRange {
	if f.start != "" || f.end != "" {
		return core.DateRange{Start: f.start, End: f.end}
	}
	r, _ := core.QuickRange(f.quick, now)
	return r
}

func newSummaryCommand(rt *runtime) *cobra.Command {
	var (
		rng    rangeFlags
		locale string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch the dataset once and print summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, rt.cfg, rt.logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now()
			dash := services.NewDashboard(a.ingestor, services.DashboardConfig{
				Logger: rt.logger,
				Now:    func() time.Time { return now },
			})
			view := dash.Summary(ctx, rng.resolve(now))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			if locale == "" {
				locale = rt.cfg.Locale
			}
			return printSummary(cmd.OutOrStdout(), view, locale)
		},
	}

	rng.register(cmd)
	cmd.Flags().StringVar(&locale, "locale", "", "number formatting locale (default LOCALE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printSummary(w io.Writer, view services.SummaryView, locale string) error {
	s := view.Stats
	source := string(view.Snapshot.Source)
	if view.Snapshot.UsingSample {
		source += " (sample data)"
	}
	window := "all"
	if !view.Range.IsOpen() {
		window = view.Range.Start + " to " + view.Range.End
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Source", source},
		{"Window", window},
		{"Transactions", fmt.Sprint(s.TransactionCount)},
		{"Total spend", core.FormatAmount(s.TotalSpend, locale)},
		{"This month", core.FormatAmount(s.MonthlySpend, locale)},
		{"Avoidable", core.FormatAmount(s.AvoidableSpend, locale)},
		{"Non-avoidable", core.FormatAmount(s.NonAvoidableSpend, locale)},
		{"Top category", s.TopCategory},
		{"Top payment mode", s.TopPaymentMode},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
