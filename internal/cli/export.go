package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/services"
	"expensedash/internal/table"
)

func newExportCommand(rt *runtime) *cobra.Command {
	var (
		rng    rangeFlags
		out    string
		format string
		state  = table.DefaultViewState()
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered and sorted transactions as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = exportFormat(format, out)
			if out == "" {
				out = table.CSVFilename
				if format == services.FormatXLSX {
					out = table.XLSXFilename
				}
			}
			state.SortDir = table.SortDir(strings.ToLower(dir))

			ctx := cmd.Context()
			a, err := buildApp(ctx, rt.cfg, rt.logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			dash := services.NewDashboard(a.ingestor, services.DashboardConfig{Logger: rt.logger})
			r := rng.resolve(time.Now())

			if out == "-" {
				return dash.Export(ctx, cmd.OutOrStdout(), format, r, state)
			}
			return writeFile(out, func(w io.Writer) error {
				return dash.Export(ctx, w, format, r, state)
			})
		},
	}

	rng.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default expense_data.csv or .xlsx)`)
	f.StringVar(&format, "format", "", "csv or xlsx (default from --out extension, else csv)")
	f.StringVar(&state.Search, "search", "", "case-insensitive substring over every field")
	f.StringVar(&state.Filters.Category, "category", "", "exact category")
	f.StringVar(&state.Filters.Mode, "mode", "", "exact payment mode")
	f.StringVar(&state.Filters.Priority, "priority", "", "exact priority")
	f.StringVar(&state.Filters.Avoidable, "avoidable", "", "exact avoidable tag (Yes/No)")
	f.StringVar(&state.SortField, "sort", state.SortField, "sort field: "+strings.Join(table.SortFields, ", "))
	f.StringVar(&dir, "dir", string(state.SortDir), "sort direction: asc or desc")
	return cmd
}

func exportFormat(format, out string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" {
		return format
	}
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		return services.FormatXLSX
	}
	return services.FormatCSV
}

// writeFile writes through a temp file so a failed export leaves no partial output.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}
