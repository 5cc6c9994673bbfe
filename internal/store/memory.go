package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/rupamlabs/ecatalog/internal/errors"
)

// memory implements RowStore using in-memory rows. Used by tests and local
// development without spreadsheet credentials.
type memory struct {
	mu       sync.RWMutex
	rows     [][]string
	settings []string
}

// NewMemoryStore creates a RowStore holding the given product rows.
// Rows follow the sheet column order with the ID in column 0.
func NewMemoryStore(rows ...[]string) RowStore {
	return &memory{rows: rows}
}

// NewMemoryStoreWithSettings creates a RowStore with product rows and a
// company settings row.
func NewMemoryStoreWithSettings(settings []string, rows ...[]string) RowStore {
	return &memory{rows: rows, settings: settings}
}

func (s *memory) ProductRows(_ context.Context) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (s *memory) SettingsRow(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, nil
	}
	return append([]string(nil), s.settings...), nil
}

func (s *memory) AppendProductRow(_ context.Context, row []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same convention as the sheet: ID is the row count, header included.
	id := strconv.Itoa(len(s.rows) + 1)
	s.rows = append(s.rows, append([]string{id}, row...))
	return id, nil
}

func (s *memory) UpdateProductRow(_ context.Context, id string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rows {
		if len(r) > 0 && r[0] == id {
			s.rows[i] = append([]string{id}, row...)
			return nil
		}
	}
	return errors.ErrProductNotFound
}

func (s *memory) WriteSettingsRow(_ context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = append([]string(nil), row...)
	return nil
}
