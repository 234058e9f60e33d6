package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemStore is an in-memory Store. Iteration is stable in insertion order.
type MemStore struct {
	mu    sync.RWMutex
	docs  map[string]map[string][]byte
	order map[string][]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		docs:  make(map[string]map[string][]byte),
		order: make(map[string][]string),
	}
}

func (m *MemStore) Insert(_ context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string][]byte)
	}
	if _, exists := m.docs[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.docs[collection][id] = raw
	return nil
}

func (m *MemStore) FindOne(_ context.Context, collection string, filter Filter, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order[collection] {
		raw := m.docs[collection][id]
		if matches(raw, filter) {
			return json.Unmarshal(raw, out)
		}
	}
	return ErrNotFound
}

func (m *MemStore) Find(_ context.Context, collection string, filter Filter, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raws := make([]json.RawMessage, 0)
	for _, id := range m.order[collection] {
		raw := m.docs[collection][id]
		if matches(raw, filter) {
			raws = append(raws, json.RawMessage(raw))
		}
	}
	return decodeList(raws, out)
}

func (m *MemStore) Update(_ context.Context, collection string, filter Filter, patch Patch) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	updated := 0
	for _, id := range m.order[collection] {
		raw := m.docs[collection][id]
		if !matches(raw, filter) {
			continue
		}
		patched, err := applyPatch(raw, patch)
		if err != nil {
			return updated, err
		}
		m.docs[collection][id] = patched
		updated++
	}
	return updated, nil
}

func (m *MemStore) Replace(_ context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[collection][id]; !exists {
		return ErrNotFound
	}
	m.docs[collection][id] = raw
	return nil
}

func (m *MemStore) Delete(_ context.Context, collection string, filter Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	kept := m.order[collection][:0]
	for _, id := range m.order[collection] {
		raw := m.docs[collection][id]
		if matches(raw, filter) {
			delete(m.docs[collection], id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	m.order[collection] = kept
	return deleted, nil
}

func (m *MemStore) Count(_ context.Context, collection string, filter Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, id := range m.order[collection] {
		if matches(m.docs[collection][id], filter) {
			count++
		}
	}
	return count, nil
}
