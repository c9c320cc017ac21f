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

// Package cache provides the two cache tiers used by the orchestration and
// aggregation layers: a fast in-process tier and a shared Redis tier, plus a
// tiered composition of both.
package cache

import (
	"context"
	"time"
)

// Store is the key/value contract both tiers implement. Get returns false on
// a miss; Set and Delete never fail visibly — a broken backend degrades to
// misses rather than surfacing errors to callers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
