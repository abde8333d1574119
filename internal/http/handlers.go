package http

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"expensedash/internal/analytics"
	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/services"
	"expensedash/internal/table"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// formattedSummary holds the money figures rendered for the server locale.
type formattedSummary struct {
	TotalSpend        string `json:"totalSpend"`
	MonthlySpend      string `json:"monthlySpend"`
	AvoidableSpend    string `json:"avoidableSpend"`
	NonAvoidableSpend string `json:"nonAvoidableSpend"`
}

type summaryResponse struct {
	services.SummaryView
	Formatted formattedSummary `json:"formatted"`
	Locale    string           `json:"locale"`
}

type chartResponse struct {
	Name  string         `json:"name"`
	Chart core.ChartData `json:"chart"`
	Range core.DateRange `json:"range"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().Text("ok").Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ingestion.Ready() {
		NewResponse().Status(http.StatusServiceUnavailable).Text("not ready").Write(w)
		return
	}
	NewResponse().Text("ready").Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rng := ParseDateRange(r.URL.Query(), s.now())
	view := s.dashboard.Summary(r.Context(), rng)
	st := view.Stats
	NewResponse().JSON(summaryResponse{
		SummaryView: view,
		Formatted: formattedSummary{
			TotalSpend:        core.FormatAmount(st.TotalSpend, s.locale),
			MonthlySpend:      core.FormatAmount(st.MonthlySpend, s.locale),
			AvoidableSpend:    core.FormatAmount(st.AvoidableSpend, s.locale),
			NonAvoidableSpend: core.FormatAmount(st.NonAvoidableSpend, s.locale),
		},
		Locale: s.locale,
	}).Write(w)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	rng := ParseDateRange(r.URL.Query(), s.now())
	NewResponse().JSON(s.dashboard.Charts(r.Context(), rng)).Write(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rng := ParseDateRange(r.URL.Query(), s.now())
	chart, err := s.dashboard.Chart(r.Context(), name, rng)
	if errors.Is(err, services.ErrUnknownChart) {
		NotFoundError("unknown chart; expected one of " + strings.Join(analytics.ChartNames, ", ")).Write(w)
		return
	}
	NewResponse().JSON(chartResponse{Name: name, Chart: chart, Range: rng}).Write(w)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rng := ParseDateRange(query, s.now())
	state := ParseViewState(query, s.pageSize)
	NewResponse().JSON(s.dashboard.Table(r.Context(), rng, state)).Write(w)
}

func (s *Server) handleExport(format string) http.HandlerFunc {
	filename, contentType := table.CSVFilename, "text/csv; charset=utf-8"
	if format == services.FormatXLSX {
		filename, contentType = table.XLSXFilename, xlsxContentType
	}
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		rng := ParseDateRange(query, s.now())
		state := ParseViewState(query, s.pageSize)

		var buf bytes.Buffer
		if err := s.dashboard.Export(r.Context(), &buf, format, rng, state); err != nil {
			log.NewStructuredLogger(log.FromContext(r.Context())).
				LogError(r.Context(), "export failed", err, log.OpExport, nil)
			InternalServerError("export failed").Write(w)
			return
		}
		NewResponse().Attachment(filename, contentType, buf.Bytes()).Write(w)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.ingestion.Refresh(r.Context())
	NewResponse().JSON(snap).Write(w)
}
