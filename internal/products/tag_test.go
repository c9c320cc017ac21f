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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagAndRank(t *testing.T) {
	items := []Product{
		{Title: "Mid", Price: "500 TL", Rating: "4.2", ReviewCount: "300"},
		{Title: "Cheap", Price: "100 TL", Rating: "3.0", ReviewCount: "10"},
		{Title: "Loved", Price: "900 TL", Rating: "4.9", ReviewCount: "50"},
	}

	tagged := TagAndRank(items)
	require.Len(t, tagged, 3)

	// Cheapest first, then best rating, then most reviews.
	assert.Equal(t, "Cheap", tagged[0].Title)
	assert.Equal(t, []string{TagBestPrice}, tagged[0].Tags)
	assert.Equal(t, "Loved", tagged[1].Title)
	assert.Equal(t, []string{TagBestRating}, tagged[1].Tags)
	assert.Equal(t, "Mid", tagged[2].Title)
	assert.Equal(t, []string{TagMostReviewed}, tagged[2].Tags)
}

func TestTagAndRankAtMostOneTagPerProduct(t *testing.T) {
	// One product dominates every dimension; it must still get only the
	// cheapest tag, and the other superlatives move to the runners-up.
	items := []Product{
		{Title: "Winner", Price: "10 TL", Rating: "5.0", ReviewCount: "1000"},
		{Title: "Other", Price: "20 TL", Rating: "4.0", ReviewCount: "500"},
	}

	tagged := TagAndRank(items)
	require.Len(t, tagged, 2)

	for _, p := range tagged {
		assert.LessOrEqual(t, len(p.Tags), 1)
	}
	assert.Equal(t, "Winner", tagged[0].Title)
	assert.Equal(t, []string{TagBestPrice}, tagged[0].Tags)
	// The dominated product earns no superlative at all.
	assert.Empty(t, tagged[1].Tags)
}

func TestTagAndRankExactlyOneCheapest(t *testing.T) {
	items := []Product{
		{Title: "A", Price: "300 TL"},
		{Title: "B", Price: "100 TL"},
		{Title: "C", Price: "200 TL"},
	}

	tagged := TagAndRank(items)

	cheapest := 0
	for _, p := range tagged {
		for _, tag := range p.Tags {
			if tag == TagBestPrice {
				cheapest++
			}
		}
	}
	assert.Equal(t, 1, cheapest)
	assert.Equal(t, "B", tagged[0].Title)
}

func TestTagAndRankTiesFirstEncountered(t *testing.T) {
	items := []Product{
		{Title: "First", Price: "100 TL", Rating: "4.0", ReviewCount: "10"},
		{Title: "Second", Price: "100 TL", Rating: "4.0", ReviewCount: "10"},
	}

	tagged := TagAndRank(items)

	// All three superlatives tie; every one of them resolves to the first
	// product, which still carries only the cheapest tag.
	assert.Equal(t, "First", tagged[0].Title)
	assert.Equal(t, []string{TagBestPrice}, tagged[0].Tags)
	assert.Empty(t, tagged[1].Tags)
}

func TestTagAndRankUnknownPrices(t *testing.T) {
	items := []Product{
		{Title: "Priceless", Price: "Fiyat yok"},
		{Title: "Priced", Price: "50 TL"},
	}

	tagged := TagAndRank(items)

	assert.Equal(t, "Priced", tagged[0].Title)
	assert.Equal(t, []string{TagBestPrice}, tagged[0].Tags)
	assert.Equal(t, float64(UnknownPriceSentinel), tagged[1].PriceVal)
}

func TestTagAndRankIdempotent(t *testing.T) {
	items := []Product{
		{Title: "A", Price: "100 TL", Rating: "4.5", ReviewCount: "20"},
		{Title: "B", Price: "200 TL", Rating: "4.0", ReviewCount: "200"},
		{Title: "C", Price: "300 TL", Rating: "3.5", ReviewCount: "2"},
	}

	once := TagAndRank(items)
	twice := TagAndRank(once)

	assert.Equal(t, once, twice)
}

func TestTagAndRankDoesNotModifyInput(t *testing.T) {
	items := []Product{
		{Title: "A", Price: "100 TL"},
		{Title: "B", Price: "50 TL"},
	}

	_ = TagAndRank(items)

	assert.Equal(t, "A", items[0].Title)
	assert.Nil(t, items[0].Tags)
	assert.Zero(t, items[0].SortPriority)
}

func TestTagAndRankEmpty(t *testing.T) {
	assert.Empty(t, TagAndRank(nil))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1299,00 TL", 1299.0, true},
		{"999 $", 999, true},
		{"45.9", 45.9, true},
		{"Fiyat yok", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 0.001, "input %q", tt.input)
		}
	}
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 4.5, ParseRating("4.5"))
	assert.Equal(t, 5.0, ParseRating("Five"))
	assert.Equal(t, 3.0, ParseRating("three"))
	assert.Equal(t, 0.0, ParseRating("yok"))
	assert.Equal(t, 0.0, ParseRating(""))
}

func TestParseReviews(t *testing.T) {
	assert.Equal(t, 1234, ParseReviews("1,234 yorum"))
	assert.Equal(t, 50, ParseReviews("50"))
	assert.Equal(t, 0, ParseReviews("yorum yok"))
	assert.Equal(t, 0, ParseReviews(""))
}
