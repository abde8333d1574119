package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/middleware/ratelimit"
	"expensedash/internal/middleware/security"
	"expensedash/internal/middleware/trace"
	"expensedash/internal/services"
)

// Ingestion is the part of the ingestor the API drives.
type Ingestion interface {
	Refresh(ctx context.Context) core.Snapshot
	Ready() bool
}

// Config holds server settings.
type Config struct {
	Addr      string
	Locale    string
	PageSize  int
	RateLimit ratelimit.Config
	Logger    *log.Logger
	Now       func() time.Time

	// TrustedProxies are CIDRs whose X-Forwarded-For is honored in
	// addition to loopback.
	TrustedProxies []string
}

// Server is the dashboard API.
type Server struct {
	http.Server
	ingestion Ingestion
	dashboard *services.Dashboard
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	logger    *log.Logger
	locale    string
	pageSize  int
	now       func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, ingestion Ingestion, dashboard *services.Dashboard) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default(log.ComponentHTTP)
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig()
	}

	s := &Server{
		ingestion: ingestion,
		dashboard: dashboard,
		limiter:   ratelimit.NewLimiter(cfg.RateLimit),
		detector:  security.NewDetector(),
		logger:    logger,
		locale:    cfg.Locale,
		pageSize:  cfg.PageSize,
		now:       cfg.Now,
	}
	for _, cidr := range cfg.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("ignoring trusted proxy", log.FieldValue, cidr, log.FieldError, err.Error())
		}
	}
	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg.RateLimit.Methods),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

func (s *Server) routes(limitedMethods []string) http.Handler {
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)

	r := mux.NewRouter()
	r.Use(log.Middleware(s.logger), tracer.Handler, s.detector.Middleware, security.Headers(security.DefaultHeadersConfig()))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError().Write(w)
	})

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(security.NoStore)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/charts", s.handleCharts).Methods(http.MethodGet)
	api.HandleFunc("/charts/{name}", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions/export.csv", s.handleExport(services.FormatCSV)).Methods(http.MethodGet)
	api.HandleFunc("/transactions/export.xlsx", s.handleExport(services.FormatXLSX)).Methods(http.MethodGet)

	limit := s.limiter.Middleware(s.detector.ExtractClientIP, limitedMethods...)
	api.Handle("/refresh", limit(http.HandlerFunc(s.handleRefresh))).Methods(http.MethodPost)

	return r
}

// Shutdown stops background helpers, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
