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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	m.Set(ctx, "key", []byte("value"), time.Minute)

	got, ok := m.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(8)
	_, ok := m.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	m.Set(ctx, "key", []byte("value"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := m.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	m.Set(ctx, "key", []byte("value"), time.Minute)
	m.Delete(ctx, "key")

	_, ok := m.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryEvictsOldestWhenFull(t *testing.T) {
	m := NewMemory(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m.Set(ctx, fmt.Sprintf("key%d", i), []byte("v"), time.Minute)
		time.Sleep(time.Millisecond)
	}
	m.Set(ctx, "key3", []byte("v"), time.Minute)

	assert.Equal(t, 3, m.Len())
	_, ok := m.Get(ctx, "key0")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "key3")
	assert.True(t, ok)
}

func TestMemoryCopiesValue(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	buf := []byte("original")
	m.Set(ctx, "key", buf, time.Minute)
	buf[0] = 'X'

	got, _ := m.Get(ctx, "key")
	assert.Equal(t, []byte("original"), got)
}

func TestMemoryOverwriteDoesNotEvict(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"), time.Minute)
	m.Set(ctx, "b", []byte("2"), time.Minute)
	m.Set(ctx, "a", []byte("3"), time.Minute)

	got, ok := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("3"), got)
	_, ok = m.Get(ctx, "b")
	assert.True(t, ok)
}
