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

package products

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/finda-ai/finda/internal/cache"
)

// compareModeLimit is the number of sellers kept in compare mode.
const compareModeLimit = 5

// Aggregator merges listings from a primary and an optional secondary
// source, deduplicates or truncates them depending on mode, ranks the result
// and caches it by query.
type Aggregator struct {
	primary       Source
	secondary     Source
	cache         cache.Store
	ttl           time.Duration
	supplementMin int
	logger        *zap.Logger
}

// NewAggregator wires the aggregation pipeline. secondary may be nil.
// supplementMin is the result count below which the secondary source is
// consulted.
func NewAggregator(primary, secondary Source, store cache.Store, ttl time.Duration, supplementMin int, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		primary:       primary,
		secondary:     secondary,
		cache:         store,
		ttl:           ttl,
		supplementMin: supplementMin,
		logger:        logger,
	}
}

// Search returns the ordered product list for a query. In compare mode the
// first five sellers are returned as-is; otherwise near-duplicate listings
// are collapsed. Source failures are logged and contained; the caller only
// ever sees a (possibly empty) list.
func (a *Aggregator) Search(ctx context.Context, query string, compareMode bool) []Product {
	key := fmt.Sprintf("products:%s:%t", query, compareMode)

	if raw, ok := a.cache.Get(ctx, key); ok {
		var cached []Product
		if err := json.Unmarshal(raw, &cached); err == nil {
			a.logger.Info("products served from cache",
				zap.String("query", query),
				zap.Bool("compare_mode", compareMode),
			)
			return cached
		}
		a.cache.Delete(ctx, key)
	}

	results := a.fetch(ctx, a.primary, query)
	if len(results) < a.supplementMin && a.secondary != nil {
		results = append(results, a.fetch(ctx, a.secondary, query)...)
	}

	if compareMode {
		if len(results) > compareModeLimit {
			results = results[:compareModeLimit]
		}
	} else {
		results = Deduplicate(results)
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := ParseRating(results[i].Rating), ParseRating(results[j].Rating)
		if ri != rj {
			return ri > rj
		}
		return ParseReviews(results[i].ReviewCount) > ParseReviews(results[j].ReviewCount)
	})

	if raw, err := json.Marshal(results); err == nil {
		a.cache.Set(ctx, key, raw, a.ttl)
	}

	a.logger.Info("products aggregated",
		zap.String("query", query),
		zap.Bool("compare_mode", compareMode),
		zap.Int("count", len(results)),
	)
	return results
}

func (a *Aggregator) fetch(ctx context.Context, src Source, query string) []Product {
	items, err := src.Fetch(ctx, query)
	if err != nil {
		a.logger.Warn("product source failed",
			zap.String("source", src.Name()),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	return items
}
