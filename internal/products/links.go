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
	"fmt"
	"net/url"
	"strings"
)

// redirectParams are the query parameters a Google Shopping redirect may
// carry the real destination under, tried in priority order.
var redirectParams = []string{"adurl", "url", "q"}

// storeSearchURLs maps a known store to its search-page template, used to
// synthesize a usable destination when a redirect cannot be unwrapped.
var storeSearchURLs = []struct {
	match    string
	template string
}{
	{"trendyol", "https://www.trendyol.com/sr?q=%s"},
	{"amazon", "https://www.amazon.com.tr/s?k=%s"},
	{"hepsiburada", "https://www.hepsiburada.com/ara?q=%s"},
	{"n11", "https://www.n11.com/arama?q=%s"},
	{"boyner", "https://www.boyner.com.tr/arama?q=%s"},
}

// ResolveLink unwraps a possibly redirect-wrapped product URL. Non-Google
// links pass through unchanged. For Google redirects it tries the known
// redirect parameters; failing that it builds a search URL on the named
// store from the product title. Unknown stores get the original link back,
// unusable as it may be.
func ResolveLink(raw, title, source string) string {
	if raw == "" || raw == "#" {
		return "#"
	}
	if !strings.Contains(raw, "google.com") {
		return raw
	}

	if u, err := url.Parse(raw); err == nil {
		query := u.Query()
		for _, param := range redirectParams {
			if v := query.Get(param); strings.HasPrefix(v, "http") {
				return v
			}
		}
	}

	sourceLower := strings.ToLower(source)
	encoded := url.QueryEscape(title)
	for _, store := range storeSearchURLs {
		if strings.Contains(sourceLower, store.match) {
			return fmt.Sprintf(store.template, encoded)
		}
	}

	return raw
}

// siteColor returns the UI badge color for a store name.
func siteColor(source string) string {
	s := strings.ToLower(source)
	switch {
	case strings.Contains(s, "trendyol"):
		return "orange"
	case strings.Contains(s, "hepsiburada"):
		return "hb"
	case strings.Contains(s, "amazon"):
		return "amazon"
	case strings.Contains(s, "n11"):
		return "n11"
	case strings.Contains(s, "boyner"):
		return "boyner"
	default:
		return "warning"
	}
}
