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
	"time"
)

// Tiered composes the fast in-process tier with the shared tier. Reads
// check fast first, then shared; a shared hit is promoted into the fast tier.
// Writes go to both. The shared tier is authoritative. There is no
// cross-request locking: concurrent misses on the same key may both
// recompute, and last writer wins.
type Tiered struct {
	fast       Store
	shared     Store
	promoteTTL time.Duration
}

// NewTiered builds a two-tier store. shared may be nil, leaving a fast-only
// cache. promoteTTL is the fast-tier lifetime given to entries promoted from
// the shared tier.
func NewTiered(fast, shared Store, promoteTTL time.Duration) *Tiered {
	return &Tiered{
		fast:       fast,
		shared:     shared,
		promoteTTL: promoteTTL,
	}
}

// Get checks the fast tier, then the shared tier, promoting shared hits.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := t.fast.Get(ctx, key); ok {
		return value, true
	}
	if t.shared == nil {
		return nil, false
	}
	value, ok := t.shared.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.fast.Set(ctx, key, value, t.promoteTTL)
	return value, true
}

// Set writes to both tiers.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.fast.Set(ctx, key, value, ttl)
	if t.shared != nil {
		t.shared.Set(ctx, key, value, ttl)
	}
}

// Delete removes the key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) {
	t.fast.Delete(ctx, key)
	if t.shared != nil {
		t.shared.Delete(ctx, key)
	}
}
