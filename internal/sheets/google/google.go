package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"expensedash/internal/core"
	"expensedash/internal/log"
	"expensedash/internal/normalize"
	ports "expensedash/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetName is read when no sheet name is configured.
const DefaultSheetName = "Expenses"

// Config selects the spreadsheet and the service account used to read it.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client reads expenses from a Google Sheets tab through the Sheets API v4.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	normalizer    *normalize.Normalizer
	logger        *log.Logger
}

// Ensure interface conformance
var (
	_ ports.ExpenseReader = (*Client)(nil)
	_ ports.Named         = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if logger == nil {
		logger = log.Default(log.ComponentSource)
	}
	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newWithService(svc, id, cfg.SheetName, logger), nil
}

func newWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *Client {
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		normalizer:    normalize.New(logger),
		logger:        logger,
	}
}

// newSheetsService initializes a read-only Sheets service from inline JSON
// credentials, a credentials file, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		logger.DebugContext(ctx, "using inline service account credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.DebugContext(ctx, "reading service account file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Kind reports the source kind.
func (c *Client) Kind() core.SourceKind { return core.SourceSheets }

// ReadExpenses reads the whole expenses tab and normalizes every row.
func (c *Client) ReadExpenses(ctx context.Context) ([]core.Expense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	start := time.Now()
	rng := fmt.Sprintf("%s!A:Z", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	rows, err := rowsFromValues(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	records, rejected := c.normalizer.All(rows)
	c.logger.DebugContext(ctx, "sheet read",
		log.FieldOperation, log.OpFetch,
		log.FieldRecords, len(records),
		log.FieldRejected, rejected,
		log.FieldDuration, time.Since(start).Milliseconds())
	return records, nil
}
