package csvexport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/normalize"
	ports "expensedash/internal/sheets"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyBody        = errors.New("empty body")
)

// Client reads a published spreadsheet CSV export with a single GET.
type Client struct {
	url        string
	http       *http.Client
	normalizer *normalize.Normalizer
	logger     *log.Logger
}

var (
	_ ports.ExpenseReader = (*Client)(nil)
	_ ports.Named         = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithNormalizer sets the row normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *Client) { c.normalizer = n }
}

// New creates a client for url. timeout <= 0 means no client timeout.
func New(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:  strings.TrimSpace(url),
		http: newHTTPClient(timeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default(log.ComponentSource)
	}
	if c.normalizer == nil {
		c.normalizer = normalize.New(c.logger)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// Kind reports the source kind.
func (c *Client) Kind() core.SourceKind { return core.SourceCSV }

// URL returns the configured export URL.
func (c *Client) URL() string { return c.url }

// ReadExpenses fetches and parses the export. Row-level defects are
// dropped by the normalizer; transport failures, a non-2xx status, a
// blank body or a row shape mismatch fail the whole batch.
func (c *Client) ReadExpenses(ctx context.Context) ([]core.Expense, error) {
	start := time.Now()
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := ParseRows(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	records, rejected := c.normalizer.All(rows)
	c.logger.DebugContext(ctx, "csv export read",
		log.FieldOperation, log.OpFetch,
		log.FieldRecords, len(records),
		log.FieldRejected, rejected,
		log.FieldDuration, time.Since(start).Milliseconds())
	return records, nil
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", ErrEmptyBody
	}
	return string(b), nil
}
