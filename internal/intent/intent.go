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

// Package intent decides locally whether a message is travel-related, so
// flight queries never reach the product pipeline. The classifier is pure
// string matching: no network, no model call, deterministic output.
package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// RouteThreshold is the confidence a classification must exceed before
// callers route to flight handling. Hard contract, not tunable per call.
const RouteThreshold = 0.7

// Classification is the outcome of one Classify call. Reason names the rule
// that fired, for logging.
type Classification struct {
	IsTravel   bool
	Confidence float64
	Reason     string
}

var travelKeywordsTR = []string{
	"uçuş", "bilet", "uçak", "hava", "seyahat", "havayolu", "gidiş", "biniş",
}

var travelKeywordsEN = []string{
	"flight", "ticket", "airplane", "plane", "fly", "airport", "airline", "trip", "travel",
}

// knownCities are the city names the route heuristics recognize. Order is
// stable so the compiled pattern is deterministic.
var knownCities = []string{
	"istanbul", "ankara", "izmir", "antalya", "adana", "bursa", "gaziantep",
	"bodrum", "alanya", "erzurum", "kayseri", "konya", "trabzon",
}

var (
	cityCodePattern  = regexp.MustCompile(`\b([a-z]{3})\s+([a-z]{3})\b`)
	directionPattern = regexp.MustCompile(`\b(?:to|den|dan|'dan|from)\b`)
	datePattern      = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{2}[./]\d{2}[./]\d{4})`)

	cityPattern     = regexp.MustCompile(`\b(` + strings.Join(knownCities, "|") + `)\b`)
	cityPairPattern = regexp.MustCompile(`\b(` + strings.Join(knownCities, "|") + `)\b.*\b(` + strings.Join(knownCities, "|") + `)\b`)
)

// Classify applies the rules in fixed order; the first match wins and each
// rule carries a fixed confidence.
func Classify(query string) Classification {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Classification{Reason: "empty"}
	}
	lower := strings.ToLower(trimmed)

	if cityCodePattern.MatchString(lower) {
		return Classification{IsTravel: true, Confidence: 0.9, Reason: "city_code_pattern"}
	}

	for _, kw := range travelKeywordsTR {
		if strings.Contains(lower, kw) {
			return Classification{IsTravel: true, Confidence: 0.8, Reason: fmt.Sprintf("keyword_tr: %s", kw)}
		}
	}
	for _, kw := range travelKeywordsEN {
		if strings.Contains(lower, kw) {
			return Classification{IsTravel: true, Confidence: 0.8, Reason: fmt.Sprintf("keyword_en: %s", kw)}
		}
	}

	if cityPairPattern.MatchString(lower) {
		return Classification{IsTravel: true, Confidence: 0.85, Reason: "city_names"}
	}

	if directionPattern.MatchString(lower) && cityPattern.MatchString(lower) {
		return Classification{IsTravel: true, Confidence: 0.7, Reason: "city_with_direction"}
	}

	if datePattern.MatchString(trimmed) && (cityCodePattern.MatchString(lower) || containsTravelKeyword(lower)) {
		return Classification{IsTravel: true, Confidence: 0.9, Reason: "date_with_flight_marker"}
	}

	return Classification{Reason: "no_flight_markers"}
}

// ShouldRoute reports whether the classification clears the routing
// threshold.
func (c Classification) ShouldRoute() bool {
	return c.IsTravel && c.Confidence > RouteThreshold
}

func containsTravelKeyword(lower string) bool {
	for _, kw := range travelKeywordsTR {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range travelKeywordsEN {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
