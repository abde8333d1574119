package source

import (
	"context"
	"time"

	"expensedash/internal/core"
	"expensedash/internal/sheets"
)

// CleanupFunc releases resources held by a reader.
type CleanupFunc func() error

// Result contains the reader instance and optional cleanup function
type Result struct {
	Reader  sheets.ExpenseReader
	Kind    core.SourceKind
	Cleanup CleanupFunc
}

// Factory creates readers based on configuration
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for reader creation
type Config struct {
	Type Type

	// CSV export
	URL          string
	FetchTimeout time.Duration

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// Type represents the kind of source to build
type Type string

const (
	CSV    Type = "csv"
	Sheets Type = "sheets"
	Sample Type = "sample"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the source type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSV, Sheets, Sample:
		return true
	default:
		return false
	}
}
