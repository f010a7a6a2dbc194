package table

import (
	"context"
	"slices"
	"sync"
)

// Operation names accepted by Memory.SetFault.
const (
	OpRows   = "rows"
	OpAppend = "append"
	OpDelete = "delete"
)

// Memory is an in-process Table.
type Memory struct {
	mu     sync.Mutex
	rows   [][]string
	faults map[string]error
}

// NewMemory creates a Memory table holding copies of rows.
func NewMemory(rows ...[]string) *Memory {
	m := &Memory{faults: make(map[string]error)}
	for _, r := range rows {
		m.rows = append(m.rows, slices.Clone(r))
	}
	return m
}

// SetFault makes every subsequent call of op fail with err. A nil err clears the fault.
func (m *Memory) SetFault(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.faults, op)
		return
	}
	if m.faults == nil {
		m.faults = make(map[string]error)
	}
	m.faults[op] = err
}

// Len returns the current number of rows.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *Memory) Rows(ctx context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(ctx, OpRows); err != nil {
		return nil, err
	}
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

func (m *Memory) Append(ctx context.Context, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(ctx, OpAppend); err != nil {
		return err
	}
	m.rows = append(m.rows, slices.Clone(row))
	return nil
}

func (m *Memory) DeleteRow(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fault(ctx, OpDelete); err != nil {
		return err
	}
	if index < 0 || index >= len(m.rows) {
		return ErrRowNotFound
	}
	m.rows = slices.Delete(m.rows, index, index+1)
	return nil
}

func (m *Memory) fault(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.faults[op]
}
