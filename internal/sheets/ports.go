package sheets

import (
	"context"

	"expensedash/internal/core"
)

// Ports for inbound data sources.
type (
	// ExpenseReader loads the full canonical expense set from a source.
	// Implementations return admitted rows in source order; any error
	// means the batch as a whole is unusable.
	ExpenseReader interface {
		ReadExpenses(ctx context.Context) ([]core.Expense, error)
	}

	// Named is implemented by readers that can report which kind of
	// source they are.
	Named interface {
		Kind() core.SourceKind
	}
)
