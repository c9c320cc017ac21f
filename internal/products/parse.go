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
	"strconv"
	"strings"
)

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.,]`)
	nonDigitChars = regexp.MustCompile(`[^0-9]`)
	wordRatings   = map[string]float64{"five": 5, "four": 4, "three": 3, "two": 2, "one": 1}
)

// ParsePrice extracts a numeric value from a free-form price string such as
// "1.299,00 TL" or "999 $". The second return is false when nothing numeric
// could be recovered.
func ParsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	cleaned := nonPriceChars.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseRating normalizes a rating that may be numeric ("4.5") or categorical
// ("Five"). Unparsable ratings are 0.
func ParseRating(s string) float64 {
	lower := strings.ToLower(strings.TrimSpace(s))
	if v, ok := wordRatings[lower]; ok {
		return v
	}
	if v, ok := ParsePrice(s); ok {
		return v
	}
	return 0
}

// ParseReviews extracts a non-negative review count from a free-form string
// such as "1,234 yorum". Unparsable counts are 0.
func ParseReviews(s string) int {
	cleaned := nonDigitChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return v
}
