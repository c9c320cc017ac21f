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
	"regexp"
	"strings"
)

// dedupKeyLength bounds the normalized-title prefix used as the dedup key so
// that near-identical listings from different stores collapse together.
const dedupKeyLength = 50

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9 ]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lowercases a title, strips non-alphanumeric characters and
// collapses whitespace.
func NormalizeTitle(title string) string {
	text := strings.ToLower(title)
	text = nonAlphanumeric.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Deduplicate removes listings that share a normalized-title prefix,
// regardless of which site they came from. The first occurrence per key wins
// and input order is preserved. Products with empty titles are dropped.
func Deduplicate(items []Product) []Product {
	seen := make(map[string]struct{}, len(items))
	unique := make([]Product, 0, len(items))

	for _, p := range items {
		key := NormalizeTitle(p.Title)
		if len(key) > dedupKeyLength {
			key = key[:dedupKeyLength]
		}
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}

	return unique
}
