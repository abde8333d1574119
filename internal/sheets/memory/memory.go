package memory

import (
	"context"
	"sync"

	"expensedash/internal/core"
	ports "expensedash/internal/sheets"
)

// Store is an in-memory expense source. The zero value is an empty store;
// NewSample returns the built-in demo data set.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
	err   error
	kind  core.SourceKind
	reads int
}

var (
	_ ports.ExpenseReader = (*Store)(nil)
	_ ports.Named         = (*Store)(nil)
)

// New returns a store holding a copy of items.
func New(items []core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), items...), kind: core.SourceSample}
}

// NewSample returns a store preloaded with SampleExpenses.
func NewSample() *Store {
	return New(SampleExpenses())
}

// WithKind makes the store report itself as another source kind. Useful
// when it stands in for a remote source.
func (s *Store) WithKind(kind core.SourceKind) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = kind
	return s
}

// Kind reports the source kind.
func (s *Store) Kind() core.SourceKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kind == "" {
		return core.SourceSample
	}
	return s.kind
}

// ReadExpenses returns a copy of the stored expenses, or the configured error.
func (s *Store) ReadExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	return append([]core.Expense(nil), s.items...), nil
}

// Append stores an expense after validating it.
func (s *Store) Append(e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return nil
}

// FailWith makes subsequent reads return err. A nil err clears it.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Reads returns how many times ReadExpenses was called.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
