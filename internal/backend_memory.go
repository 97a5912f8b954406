package internal

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps collections in process. It backs tests and local runs
// started with --memory.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]map[string]any
	// order keeps insertion order per collection so listings are stable.
	order map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cols: map[string]map[string]map[string]any{}, order: map[string][]string{}}
}

func (m *MemoryStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	return m.filter(ctx, collection, func(map[string]any) bool { return true })
}

// WhereEqual mirrors Firestore: a nil value only matches fields stored as null.
func (m *MemoryStore) WhereEqual(ctx context.Context, collection, field string, value any) ([]Record, error) {
	return m.filter(ctx, collection, func(d map[string]any) bool {
		v, ok := d[field]
		if !ok { return false }
		if value == nil { return v == nil }
		return v == value
	})
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Record, bool, error) {
	if err := ctx.Err(); err != nil { return Record{}, false, err }
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.cols[collection][id]
	if !ok { return Record{}, false, nil }
	return Record{ID: id, Data: copyFields(d)}, true, nil
}

// Insert stores data under a new random id, like Firestore's Add.
func (m *MemoryStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	return m.Put(ctx, collection, GenerateUUID(), data)
}

// Put stores data under the given id, replacing any existing document.
func (m *MemoryStore) Put(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil { return "", err }
	if id == "" { return "", fmt.Errorf("memory store: empty document id") }
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.cols[collection]
	if !ok {
		col = map[string]map[string]any{}
		m.cols[collection] = col
	}
	if _, exists := col[id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	col[id] = copyFields(data)
	return id, nil
}

// Delete removes the document; deleting a missing id is not an error.
func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil { return err }
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cols[collection][id]; !ok { return nil }
	delete(m.cols[collection], id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) filter(ctx context.Context, collection string, keep func(map[string]any) bool) ([]Record, error) {
	if err := ctx.Err(); err != nil { return nil, err }
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, id := range m.order[collection] {
		d := m.cols[collection][id]
		if keep(d) {
			out = append(out, Record{ID: id, Data: copyFields(d)})
		}
	}
	return out, nil
}

func copyFields(d map[string]any) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d { out[k] = v }
	return out
}

var _ Store = (*MemoryStore)(nil)
