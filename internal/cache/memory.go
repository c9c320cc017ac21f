// Copyright 2025 Finda AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval controls how often expired entries are removed in the
// background.
const sweepInterval = 10 * time.Minute

type memoryEntry struct {
	value      []byte
	expiresAt  time.Time
	insertedAt time.Time
}

// Memory is a thread-safe in-process cache with per-entry TTL and a bounded
// entry count. When full, the oldest-inserted entry is evicted.
type Memory struct {
	entries    map[string]memoryEntry
	maxEntries int
	mutex      sync.RWMutex
}

// NewMemory creates the fast cache tier and starts its background sweeper.
func NewMemory(maxEntries int) *Memory {
	m := &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
	}
	go m.sweep()
	return m
}

// Get returns the cached bytes for key, or false when absent or expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key for ttl. A copy of value is taken so callers
// may reuse their buffer.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictOldest()
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	now := time.Now()
	m.entries[key] = memoryEntry{
		value:      stored,
		expiresAt:  now.Add(ttl),
		insertedAt: now,
	}
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.entries, key)
}

// Len reports the current entry count.
func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.entries)
}

func (m *Memory) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.insertedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.insertedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mutex.Lock()
		now := time.Now()
		for key, entry := range m.entries {
			if now.After(entry.expiresAt) {
				delete(m.entries, key)
			}
		}
		m.mutex.Unlock()
	}
}
