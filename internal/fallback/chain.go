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

// Package fallback runs an ordered chain of generation providers and
// returns the first structured result, optionally fronted by a cache.
package fallback

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/finda-ai/finda/internal/cache"
	"github.com/finda-ai/finda/internal/llm"
)

// Source values for results not produced by a provider. Provider-produced
// results carry the provider's Name.
const (
	SourceCache = "cache"
	SourceNone  = "none"
)

// Result is the outcome of one Resolve call. Data is nil iff Source is
// SourceNone, which means every configured tier failed.
type Result struct {
	Data   map[string]any
	Source string
}

// Exhausted reports whether no tier produced a result.
func (r Result) Exhausted() bool { return r.Source == SourceNone }

// Chain tries providers in order until one succeeds. Unconfigured providers
// are skipped silently; failed ones are logged and skipped. A nil store
// disables caching, as does an empty cache key on a call.
type Chain struct {
	providers []llm.Provider
	store     cache.Store
	ttl       time.Duration
	logger    *zap.Logger
}

// NewChain builds a chain over providers, in fallback order. store may be
// nil for uncached chains.
func NewChain(providers []llm.Provider, store cache.Store, ttl time.Duration, logger *zap.Logger) *Chain {
	return &Chain{
		providers: providers,
		store:     store,
		ttl:       ttl,
		logger:    logger,
	}
}

// Resolve returns the cached result for cacheKey when present, otherwise the
// first provider success, caching it on the way out. Exhaustion of all tiers
// yields Result{Source: SourceNone}; the caller owns the degraded reply.
func (c *Chain) Resolve(ctx context.Context, cacheKey, prompt string) Result {
	if data, ok := c.cacheGet(ctx, cacheKey); ok {
		return Result{Data: data, Source: SourceCache}
	}

	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		data, err := p.Generate(ctx, prompt)
		if err != nil {
			c.logger.Warn("provider failed, falling through",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		c.cacheSet(ctx, cacheKey, data)
		return Result{Data: data, Source: p.Name()}
	}

	c.logger.Error("all providers exhausted")
	return Result{Source: SourceNone}
}

func (c *Chain) cacheGet(ctx context.Context, key string) (map[string]any, bool) {
	if c.store == nil || key == "" {
		return nil, false
	}
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		c.store.Delete(ctx, key)
		return nil, false
	}
	return data, true
}

func (c *Chain) cacheSet(ctx context.Context, key string, data map[string]any) {
	if c.store == nil || key == "" {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.store.Set(ctx, key, raw, c.ttl)
}
