package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory is an in-memory Store for tests. Transact holds the write lock for
// the whole callback, which gives the same isolation the Postgres
// implementation gets from row locks.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]json.RawMessage)}
}

func (m *Memory) collection(name string) map[string]json.RawMessage {
	c, ok := m.data[name]
	if !ok {
		c = make(map[string]json.RawMessage)
		m.data[name] = c
	}
	return c
}

func (m *Memory) getLocked(collection, id string, dest any) error {
	raw, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *Memory) setLocked(collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.collection(collection)[id] = raw
	return nil
}

func (m *Memory) mergeLocked(collection, id string, fields map[string]any) error {
	doc := make(map[string]any)
	if raw, ok := m.data[collection][id]; ok {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	for k, v := range fields {
		doc[k] = v
	}
	return m.setLocked(collection, id, doc)
}

func (m *Memory) updateLocked(collection, id string, fields map[string]any) error {
	if _, ok := m.data[collection][id]; !ok {
		return ErrNotFound
	}
	return m.mergeLocked(collection, id, fields)
}

func (m *Memory) deleteLocked(collection, id string) error {
	delete(m.data[collection], id)
	return nil
}

func (m *Memory) Get(ctx context.Context, collection, id string, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(collection, id, dest)
}

func (m *Memory) Set(ctx context.Context, collection, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(collection, id, doc)
}

func (m *Memory) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mergeLocked(collection, id, fields)
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(collection, id, fields)
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(collection, id)
}

func (m *Memory) Query(ctx context.Context, collection string, filters map[string]any) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Doc
	for _, id := range sortedIDs(m.data[collection]) {
		raw := m.data[collection][id]
		fields := make(map[string]any)
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		if matchesFilters(fields, filters) {
			docs = append(docs, Doc{ID: id, Data: raw})
		}
	}
	return docs, nil
}

func (m *Memory) StreamAll(ctx context.Context, collection string) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Doc
	for _, id := range sortedIDs(m.data[collection]) {
		docs = append(docs, Doc{ID: id, Data: m.data[collection][id]})
	}
	return docs, nil
}

func (m *Memory) Transact(ctx context.Context, fn func(tx Ops) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Snapshot so a failed callback leaves the store untouched.
	snapshot := make(map[string]map[string]json.RawMessage, len(m.data))
	for coll, docs := range m.data {
		c := make(map[string]json.RawMessage, len(docs))
		for id, raw := range docs {
			c[id] = raw
		}
		snapshot[coll] = c
	}

	if err := fn(memTx{m: m}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

// memTx runs against the already-locked store.
type memTx struct {
	m *Memory
}

func (t memTx) Get(ctx context.Context, collection, id string, dest any) error {
	return t.m.getLocked(collection, id, dest)
}

func (t memTx) Set(ctx context.Context, collection, id string, doc any) error {
	return t.m.setLocked(collection, id, doc)
}

func (t memTx) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	return t.m.mergeLocked(collection, id, fields)
}

func (t memTx) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return t.m.updateLocked(collection, id, fields)
}

func (t memTx) Delete(ctx context.Context, collection, id string) error {
	return t.m.deleteLocked(collection, id)
}

func sortedIDs(docs map[string]json.RawMessage) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func matchesFilters(fields, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := fields[key]
		if !ok || !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

// jsonEqual compares two values by their JSON encoding, so an int filter
// matches a float64 that came out of unmarshalling.
func jsonEqual(a, b any) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
