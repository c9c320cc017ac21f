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
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultFakeStoreURL is the keyless demo catalog used to supplement sparse
// primary results.
const DefaultFakeStoreURL = "https://fakestoreapi.com"

// FakeStoreSource is a keyless demo product source. It filters the catalog
// locally: a listing matches when its title contains every query word.
type FakeStoreSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewFakeStoreSource creates the demo source. baseURL falls back to
// DefaultFakeStoreURL when empty.
func NewFakeStoreSource(baseURL string, timeout time.Duration, logger *zap.Logger) *FakeStoreSource {
	if baseURL == "" {
		baseURL = DefaultFakeStoreURL
	}
	return &FakeStoreSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name identifies the source in logs and product IDs.
func (f *FakeStoreSource) Name() string { return "fakestore" }

type fakeStoreItem struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Rating struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// Fetch downloads the demo catalog and keeps listings whose title contains
// every word of the query.
func (f *FakeStoreSource) Fetch(ctx context.Context, query string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build fakestore request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fakestore request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fakestore request: status %d", resp.StatusCode)
	}

	var items []fakeStoreItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode fakestore response: %w", err)
	}

	queryWords := strings.Fields(strings.ToLower(query))
	results := make([]Product, 0, len(items))
	for _, item := range items {
		if !titleMatches(item.Title, queryWords) {
			continue
		}
		results = append(results, Product{
			ID:            fmt.Sprintf("fs_%d", item.ID),
			Title:         item.Title,
			Price:         strconv.FormatFloat(item.Price, 'f', -1, 64) + " $",
			Image:         item.Image,
			Rating:        strconv.FormatFloat(item.Rating.Rate, 'f', -1, 64),
			ReviewCount:   strconv.Itoa(item.Rating.Count),
			Site:          "FakeStore",
			SiteColor:     "primary",
			DeliveryInfo:  "2-3 gün",
			PositiveRatio: int(item.Rating.Rate * 20),
			Link:          "#",
		})
	}

	f.logger.Debug("fakestore results fetched",
		zap.String("query", query),
		zap.Int("count", len(results)),
	)
	return results, nil
}

func titleMatches(title string, queryWords []string) bool {
	titleLower := strings.ToLower(title)
	for _, word := range queryWords {
		if !strings.Contains(titleLower, word) {
			return false
		}
	}
	return true
}
