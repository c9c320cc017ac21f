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
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultSerpURL is the SerpAPI search endpoint.
	DefaultSerpURL = "https://serpapi.com/search.json"
	// serpMaxResults caps how many shopping results are mapped per query.
	serpMaxResults = 15
)

// SerpSource fetches Google Shopping listings through SerpAPI. Without an
// API key it is a no-op source that returns nothing.
type SerpSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewSerpSource creates a SerpAPI-backed product source. baseURL falls back
// to DefaultSerpURL when empty.
func NewSerpSource(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *SerpSource {
	if baseURL == "" {
		baseURL = DefaultSerpURL
	}
	return &SerpSource{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name identifies the source in logs and product IDs.
func (s *SerpSource) Name() string { return "serp" }

type serpResponse struct {
	ShoppingResults []serpItem `json:"shopping_results"`
}

type serpItem struct {
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Image       string  `json:"image"`
	Source      string  `json:"source"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	Snippet     string  `json:"snippet"`
	Delivery    string  `json:"delivery"`
	DirectLink  string  `json:"direct_link"`
	ProductLink string  `json:"product_link"`
	Link        string  `json:"link"`
	Offers      []struct {
		Link string `json:"link"`
	} `json:"offers"`
}

// Fetch queries the google_shopping engine and maps up to serpMaxResults
// listings into Products. A missing API key yields an empty result, not an
// error.
func (s *SerpSource) Fetch(ctx context.Context, query string) ([]Product, error) {
	if s.apiKey == "" {
		s.logger.Debug("serp source skipped, no API key configured")
		return nil, nil
	}

	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("gl", "tr")
	params.Set("hl", "tr")
	params.Set("direct_link", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build serp request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serp request: status %d", resp.StatusCode)
	}

	var body serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode serp response: %w", err)
	}

	results := make([]Product, 0, serpMaxResults)
	for i, item := range body.ShoppingResults {
		if i >= serpMaxResults {
			break
		}
		results = append(results, s.mapItem(i, item))
	}

	s.logger.Info("serp results fetched",
		zap.String("query", query),
		zap.Int("count", len(results)),
	)
	return results, nil
}

func (s *SerpSource) mapItem(position int, item serpItem) Product {
	rawLink := item.DirectLink
	if rawLink == "" && len(item.Offers) > 0 {
		rawLink = item.Offers[0].Link
	}
	if rawLink == "" {
		rawLink = item.ProductLink
	}
	if rawLink == "" {
		rawLink = item.Link
	}
	if rawLink == "" {
		rawLink = "#"
	}

	price := item.Price
	if price == "" {
		price = "Fiyat yok"
	}
	image := item.Thumbnail
	if image == "" {
		image = item.Image
	}
	delivery := item.Delivery
	if delivery == "" {
		delivery = "Mağaza Detayı"
	}

	return Product{
		ID:            fmt.Sprintf("serp_%d_%d", position, rand.Intn(9000)+1000),
		Title:         item.Title,
		Price:         price,
		Image:         image,
		Brand:         item.Source,
		Rating:        strconv.FormatFloat(item.Rating, 'f', -1, 64),
		ReviewCount:   strconv.Itoa(item.Reviews),
		Site:          item.Source,
		SiteColor:     siteColor(item.Source),
		DeliveryInfo:  delivery,
		PositiveRatio: int(item.Rating * 20),
		Description:   item.Snippet,
		Link:          ResolveLink(rawLink, item.Title, item.Source),
	}
}
