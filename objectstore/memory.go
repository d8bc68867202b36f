// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package objectstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and development mode. Each key is
// guarded by one mutex over the whole map, which gives the same per-key
// read-after-write behavior the GCS store provides.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemory initializes an empty in-memory store
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrNotExist
	}
	// Copy so callers can't mutate stored bytes
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = stored
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *Memory) SignedPutURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	expires := time.Now().Add(expiry).Unix()
	return fmt.Sprintf("memory://upload/%s?expires=%d", key, expires), nil
}

func (m *Memory) PublicURL(key string) string {
	return "memory://read/" + key
}
