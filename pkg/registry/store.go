package registry

import (
	"context"
	"sync"
)

// Store is the persistence surface the registry runs against: a key-value
// mapping from counter identifier to value, a parallel mapping to owner, and
// the entropy pool state. Implementations must make the seed+record writes of
// PutCounter and PutValue land together, so a mutating operation is never
// half-applied.
//
// The in-process MemoryStore backs tests and embedded use; internal/ledger
// provides the Redis-backed implementation.
type Store interface {
	// InitSeed persists the initial pool state. Fails with
	// ErrAlreadyInitialized if a state is already present.
	InitSeed(ctx context.Context, seed []byte) error

	// LoadSeed returns the persisted pool state, or ErrNotInitialized if the
	// registry has never been initialized.
	LoadSeed(ctx context.Context) ([]byte, error)

	// GetValue returns a counter's value, or ErrNotFound.
	GetValue(ctx context.Context, id string) (int32, error)

	// GetOwner returns a counter's owner, or ErrNotFound.
	GetOwner(ctx context.Context, id string) (AccountID, error)

	// PutCounter persists the advanced pool state together with a freshly
	// created record.
	PutCounter(ctx context.Context, seed []byte, c Counter) error

	// PutValue persists the advanced pool state together with a counter's
	// new value.
	PutValue(ctx context.Context, seed []byte, id string, value int32) error
}

// MemoryStore is a map-backed Store. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	seed   []byte
	values map[string]int32
	owners map[string]AccountID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]int32),
		owners: make(map[string]AccountID),
	}
}

// InitSeed stores the initial pool state, failing if one exists.
func (m *MemoryStore) InitSeed(ctx context.Context, seed []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seed != nil {
		return ErrAlreadyInitialized
	}
	m.seed = append([]byte(nil), seed...)
	return nil
}

// LoadSeed returns the stored pool state.
func (m *MemoryStore) LoadSeed(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seed == nil {
		return nil, ErrNotInitialized
	}
	return append([]byte(nil), m.seed...), nil
}

// GetValue returns a counter's value.
func (m *MemoryStore) GetValue(ctx context.Context, id string) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[id]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

// GetOwner returns a counter's owner.
func (m *MemoryStore) GetOwner(ctx context.Context, id string) (AccountID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.owners[id]
	if !ok {
		return "", ErrNotFound
	}
	return o, nil
}

// PutCounter stores the advanced pool state and the new record.
func (m *MemoryStore) PutCounter(ctx context.Context, seed []byte, c Counter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seed = append([]byte(nil), seed...)
	m.values[c.ID] = c.Value
	m.owners[c.ID] = c.Owner
	return nil
}

// PutValue stores the advanced pool state and the counter's new value.
func (m *MemoryStore) PutValue(ctx context.Context, seed []byte, id string, value int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[id] = value
	m.seed = append([]byte(nil), seed...)
	return nil
}

// Counters returns a snapshot of all records, in no particular order.
func (m *MemoryStore) Counters() []Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Counter, 0, len(m.values))
	for id, v := range m.values {
		out = append(out, Counter{ID: id, Value: v, Owner: m.owners[id]})
	}
	return out
}
