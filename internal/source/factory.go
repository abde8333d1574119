package source

import (
	"context"
	"fmt"

	"expensedash/internal/log"
	"expensedash/internal/sheets/csvexport"
	gsheet "expensedash/internal/sheets/google"
	"expensedash/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Default(log.ComponentSource)
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentSource),
	}
}

// Create implements Factory.Create
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid source type: %s", config.Type)
	}

	switch config.Resolved() {
	case CSV:
		return f.createCSV(config), nil
	case Sheets:
		return f.createSheets(ctx, config)
	default:
		return f.createSample(config), nil
	}
}

func (f *DefaultFactory) createCSV(config Config) *Result {
	cli := csvexport.New(config.URL, config.FetchTimeout, csvexport.WithLogger(f.logger))
	f.logger.Info("Initialized CSV export source",
		log.FieldSourceURL, config.URL,
		"fetch_timeout", config.FetchTimeout.String())
	return &Result{Reader: cli, Kind: cli.Kind()}
}

func (f *DefaultFactory) createSheets(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets source", "sheet", config.GoogleSheetName)
	return &Result{Reader: cli, Kind: cli.Kind()}, nil
}

func (f *DefaultFactory) createSample(config Config) *Result {
	if config.Type == CSV {
		f.logger.Info("Using sample data - configure SOURCE_URL with a published CSV export")
	} else {
		f.logger.Info("Using sample data")
	}
	store := memory.NewSample()
	return &Result{Reader: store, Kind: store.Kind()}
}
