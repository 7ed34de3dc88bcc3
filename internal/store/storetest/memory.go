// Package storetest provides an in-memory store.Store for tests, with
// call counting and failure injection.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/store"
)

// Memory keeps the board in a slice and honors revisions like the SQL stores.
type Memory struct {
	mu       sync.Mutex
	entries  []models.Entry
	revision int64
	nextID   int64

	// LoadErr and ReplaceErr, when set, are returned wrapped in
	// common.ErrStoreUnavailable.
	LoadErr    error
	ReplaceErr error

	LoadCalls    int
	ReplaceCalls int
}

var _ store.Store = (*Memory)(nil)

// NewMemory seeds the store with entries (newest first) at revision 0.
func NewMemory(entries ...models.Entry) *Memory {
	m := &Memory{}
	m.write(entries)
	return m
}

func (m *Memory) write(entries []models.Entry) []models.Entry {
	out := models.CloneAll(entries)
	for i := len(out) - 1; i >= 0; i-- {
		m.nextID++
		out[i].ID = m.nextID
	}
	m.entries = out
	return out
}

func (m *Memory) LoadAll(context.Context) (*store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, fmt.Errorf("%w: load entries: %w", common.ErrStoreUnavailable, m.LoadErr)
	}
	return &store.Snapshot{Entries: models.CloneAll(m.entries), Revision: m.revision}, nil
}

func (m *Memory) ReplaceAll(_ context.Context, entries []models.Entry, base int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCalls++
	if m.ReplaceErr != nil {
		return base, fmt.Errorf("%w: replace entries: %w", common.ErrStoreUnavailable, m.ReplaceErr)
	}
	if base != m.revision {
		return base, common.ErrVersionConflict
	}
	for i, e := range m.write(entries) {
		entries[i].ID = e.ID
	}
	m.revision++
	return m.revision, nil
}

func (m *Memory) Close() error { return nil }

// Snapshot returns the stored entries and revision without counting a load.
func (m *Memory) Snapshot() ([]models.Entry, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneAll(m.entries), m.revision
}

// Bump simulates a write by another session.
func (m *Memory) Bump() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revision++
}

// SetReplaceErr and SetLoadErr change the injected failures under the lock.
func (m *Memory) SetReplaceErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceErr = err
}

func (m *Memory) SetLoadErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadErr = err
}

// Calls returns the load and replace counters.
func (m *Memory) Calls() (load, replace int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadCalls, m.ReplaceCalls
}
