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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSerpSourceFetch(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"engine":      r.URL.Query().Get("engine"),
			"q":           r.URL.Query().Get("q"),
			"api_key":     r.URL.Query().Get("api_key"),
			"gl":          r.URL.Query().Get("gl"),
			"hl":          r.URL.Query().Get("hl"),
			"direct_link": r.URL.Query().Get("direct_link"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"shopping_results": [
				{
					"title": "iPhone 15",
					"price": "45.000 TL",
					"thumbnail": "https://img.example/1.jpg",
					"source": "Trendyol",
					"rating": 4.5,
					"reviews": 120,
					"delivery": "Ücretsiz kargo",
					"direct_link": "https://www.trendyol.com/p/1"
				},
				{
					"title": "iPhone 15 Kılıf",
					"source": "Amazon.com.tr",
					"link": "https://www.google.com/shopping/product/2"
				}
			]
		}`))
	}))
	defer ts.Close()

	src := NewSerpSource("test-key", ts.URL, time.Second, zap.NewNop())
	items, err := src.Fetch(context.Background(), "iphone 15")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "google_shopping", gotQuery["engine"])
	assert.Equal(t, "iphone 15", gotQuery["q"])
	assert.Equal(t, "test-key", gotQuery["api_key"])
	assert.Equal(t, "tr", gotQuery["gl"])
	assert.Equal(t, "tr", gotQuery["hl"])
	assert.Equal(t, "true", gotQuery["direct_link"])

	first := items[0]
	assert.Equal(t, "iPhone 15", first.Title)
	assert.Equal(t, "45.000 TL", first.Price)
	assert.Equal(t, "Trendyol", first.Site)
	assert.Equal(t, "orange", first.SiteColor)
	assert.Equal(t, "4.5", first.Rating)
	assert.Equal(t, "120", first.ReviewCount)
	assert.Equal(t, 90, first.PositiveRatio)
	assert.Equal(t, "Ücretsiz kargo", first.DeliveryInfo)
	assert.Equal(t, "https://www.trendyol.com/p/1", first.Link)

	// Missing fields get the Turkish placeholders, and the Google link is
	// resolved against the store.
	second := items[1]
	assert.Equal(t, "Fiyat yok", second.Price)
	assert.Equal(t, "Mağaza Detayı", second.DeliveryInfo)
	assert.Contains(t, second.Link, "amazon.com.tr")
}

func TestSerpSourceWithoutKey(t *testing.T) {
	src := NewSerpSource("", "", time.Second, zap.NewNop())
	items, err := src.Fetch(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSerpSourceCapsResults(t *testing.T) {
	body := `{"shopping_results": [`
	for i := 0; i < 20; i++ {
		if i > 0 {
			body += ","
		}
		body += `{"title": "item", "source": "Trendyol"}`
	}
	body += `]}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	src := NewSerpSource("key", ts.URL, time.Second, zap.NewNop())
	items, err := src.Fetch(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, items, 15)
}

func TestSerpSourceHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	src := NewSerpSource("key", ts.URL, time.Second, zap.NewNop())
	_, err := src.Fetch(context.Background(), "q")
	assert.Error(t, err)
}

func TestFakeStoreSourceFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Mens Casual Slim Fit Laptop Bag", "price": 29.9, "image": "https://img/1.jpg", "rating": {"rate": 4.1, "count": 259}},
			{"id": 2, "title": "Gold Necklace", "price": 168, "rating": {"rate": 4.6, "count": 400}}
		]`))
	}))
	defer ts.Close()

	src := NewFakeStoreSource(ts.URL, time.Second, zap.NewNop())
	items, err := src.Fetch(context.Background(), "laptop bag")
	require.NoError(t, err)
	require.Len(t, items, 1)

	p := items[0]
	assert.Equal(t, "fs_1", p.ID)
	assert.Equal(t, "29.9 $", p.Price)
	assert.Equal(t, "FakeStore", p.Site)
	assert.Equal(t, "primary", p.SiteColor)
	assert.Equal(t, "4.1", p.Rating)
	assert.Equal(t, "259", p.ReviewCount)
	assert.Equal(t, "2-3 gün", p.DeliveryInfo)
	assert.Equal(t, "#", p.Link)
}

func TestFakeStoreSourceNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "title": "Gold Necklace", "price": 168, "rating": {"rate": 4.6, "count": 400}}]`))
	}))
	defer ts.Close()

	src := NewFakeStoreSource(ts.URL, time.Second, zap.NewNop())
	items, err := src.Fetch(context.Background(), "laptop")
	require.NoError(t, err)
	assert.Empty(t, items)
}
