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

import "sort"

// Superlative tags shown to the user. Each product receives at most one.
const (
	TagBestPrice    = "En iyi fiyat"
	TagBestRating   = "En yüksek puan"
	TagMostReviewed = "En çok yorum"
)

// Sort ranks assigned by TagAndRank; untagged products rank last.
const (
	rankBestPrice    = 1
	rankBestRating   = 2
	rankMostReviewed = 3
	rankDefault      = 99
)

// TagAndRank computes derived numeric fields for every product, marks the
// single cheapest, highest-rated and most-reviewed product, and stable-sorts
// the result ascending by rank. Tag assignment is mutually exclusive per
// product and evaluated in the fixed order cheapest, highest-rated,
// most-reviewed; ties resolve to the first-encountered product. The input
// slice is not modified and the function is idempotent.
func TagAndRank(items []Product) []Product {
	if len(items) == 0 {
		return items
	}

	out := make([]Product, len(items))
	copy(out, items)

	for i := range out {
		if v, ok := ParsePrice(out[i].Price); ok {
			out[i].PriceVal = v
		} else {
			out[i].PriceVal = UnknownPriceSentinel
		}
		out[i].RatingVal = ParseRating(out[i].Rating)
		out[i].ReviewVal = ParseReviews(out[i].ReviewCount)
		out[i].Tags = nil
	}

	cheapest, bestRated, mostReviewed := 0, 0, 0
	for i := range out {
		if out[i].PriceVal < out[cheapest].PriceVal {
			cheapest = i
		}
		if out[i].RatingVal > out[bestRated].RatingVal {
			bestRated = i
		}
		if out[i].ReviewVal > out[mostReviewed].ReviewVal {
			mostReviewed = i
		}
	}

	for i := range out {
		switch {
		case i == cheapest:
			out[i].Tags = []string{TagBestPrice}
			out[i].SortPriority = rankBestPrice
		case i == bestRated:
			out[i].Tags = []string{TagBestRating}
			out[i].SortPriority = rankBestRating
		case i == mostReviewed:
			out[i].Tags = []string{TagMostReviewed}
			out[i].SortPriority = rankMostReviewed
		default:
			out[i].SortPriority = rankDefault
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortPriority < out[j].SortPriority
	})

	return out
}
