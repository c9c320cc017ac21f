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

// Package products implements the product aggregation pipeline: fetching
// listings from external catalog providers, merging and deduplicating them,
// tagging superlatives, ranking, and caching results by query.
package products

import "context"

// UnknownPriceSentinel is the parsed price assigned to products whose price
// could not be parsed. It sorts such products as most expensive.
const UnknownPriceSentinel = 999999

// Product is a single listing normalized from any source. Price, Rating and
// ReviewCount carry the source's free-form values; the numeric fields below
// them are derived by TagAndRank and are never serialized.
type Product struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Price         string   `json:"price"`
	Image         string   `json:"image,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Rating        string   `json:"rating"`
	ReviewCount   string   `json:"review_count"`
	Site          string   `json:"site"`
	SiteColor     string   `json:"site_color,omitempty"`
	DeliveryInfo  string   `json:"delivery_info,omitempty"`
	PositiveRatio int      `json:"positive_ratio"`
	Description   string   `json:"description,omitempty"`
	Link          string   `json:"link"`
	Tags          []string `json:"tags,omitempty"`

	PriceVal     float64 `json:"-"`
	RatingVal    float64 `json:"-"`
	ReviewVal    int     `json:"-"`
	SortPriority int     `json:"-"`
}

// Source fetches raw product listings from one external catalog provider.
// Implementations return an empty slice (not an error) when they are not
// configured; transport failures are returned as errors and contained by the
// aggregator.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]Product, error)
}
