package neural

import (
	"fmt"
	"sort"
	"sync"

	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
)

// NodeStore persists node records: the learned parameters of single units,
// never their topology or runtime state.
type NodeStore interface {
	Initialize() error
	Save(record domainNeural.NodeRecord) error
	Load(id string) (domainNeural.NodeRecord, error)
	List() ([]domainNeural.NodeRecord, error)
	Delete(id string) error
	Close() error
}

// ErrRecordNotFound is returned when a node record does not exist.
var ErrRecordNotFound = fmt.Errorf("node record not found")

// MemoryStore keeps node records in memory. It backs tests and serves as the
// fallback when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domainNeural.NodeRecord
}

// NewMemoryStore creates an empty in-memory node store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domainNeural.NodeRecord)}
}

// Initialize is a no-op for the in-memory store.
func (ms *MemoryStore) Initialize() error { return nil }

// Save stores or replaces a record by ID.
func (ms *MemoryStore) Save(record domainNeural.NodeRecord) error {
	if record.ID == "" {
		return fmt.Errorf("node record requires an id")
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.records[record.ID] = record
	return nil
}

// Load retrieves a record by ID.
func (ms *MemoryStore) Load(id string) (domainNeural.NodeRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	record, ok := ms.records[id]
	if !ok {
		return domainNeural.NodeRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return record, nil
}

// List returns all records ordered by ID.
func (ms *MemoryStore) List() ([]domainNeural.NodeRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	records := make([]domainNeural.NodeRecord, 0, len(ms.records))
	for _, record := range ms.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Delete removes a record by ID. Missing records are a no-op.
func (ms *MemoryStore) Delete(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.records, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (ms *MemoryStore) Close() error { return nil }
