package source

import (
	"context"
	"fmt"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"sync"
)

// Memory keeps tables in process, useful for tests and embedding.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	columns map[string][]string
	rows    map[string][]analyzer.RawRecord
}

func NewMemory() *Memory {
	return &Memory{
		columns: make(map[string][]string),
		rows:    make(map[string][]analyzer.RawRecord),
	}
}

// Put replaces the table content.
func (m *Memory) Put(table string, columns []string, rows []analyzer.RawRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.columns[table]; !ok {
		m.order = append(m.order, table)
	}
	m.columns[table] = columns
	m.rows[table] = rows
}

func (m *Memory) Tables(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *Memory) Columns(ctx context.Context, table string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cols, ok := m.columns[table]
	if !ok {
		return nil, fmt.Errorf("table not found: %s", table)
	}
	return append([]string(nil), cols...), nil
}

func (m *Memory) Rows(ctx context.Context, table string) ([]analyzer.RawRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.rows[table]
	if !ok {
		return nil, fmt.Errorf("table not found: %s", table)
	}
	return append([]analyzer.RawRecord(nil), rows...), nil
}

func (m *Memory) Close() error {
	return nil
}
