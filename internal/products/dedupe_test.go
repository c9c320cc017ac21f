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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"iPhone 15 Pro (256GB)", "iphone 15 pro 256gb"},
		{"  Kol   Saati  ", "kol saati"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTitle(tt.input), "input %q", tt.input)
	}
}

func TestDeduplicateCrossSite(t *testing.T) {
	items := []Product{
		{Title: "iPhone 15", Price: "999", Rating: "4.5", ReviewCount: "200", Site: "Trendyol"},
		{Title: "iPhone 15", Price: "899", Rating: "4.0", ReviewCount: "50", Site: "Amazon"},
	}

	unique := Deduplicate(items)

	require.Len(t, unique, 1)
	// First-seen listing wins regardless of price.
	assert.Equal(t, "Trendyol", unique[0].Site)
	assert.Equal(t, "999", unique[0].Price)
}

func TestDeduplicatePrefixKey(t *testing.T) {
	long := strings.Repeat("a", 60)
	items := []Product{
		{Title: long + " red"},
		{Title: long + " blue"},
	}

	// Both normalize to the same 50-char prefix.
	unique := Deduplicate(items)
	assert.Len(t, unique, 1)
}

func TestDeduplicatePreservesOrder(t *testing.T) {
	items := []Product{
		{Title: "Zebra kulaklık"},
		{Title: "Apple AirPods"},
		{Title: "Zebra Kulaklık!"},
		{Title: "Sony WH-1000XM5"},
	}

	unique := Deduplicate(items)

	require.Len(t, unique, 3)
	assert.Equal(t, "Zebra kulaklık", unique[0].Title)
	assert.Equal(t, "Apple AirPods", unique[1].Title)
	assert.Equal(t, "Sony WH-1000XM5", unique[2].Title)
}

func TestDeduplicateDropsEmptyTitles(t *testing.T) {
	items := []Product{
		{Title: ""},
		{Title: "Valid"},
		{Title: "###"},
	}

	unique := Deduplicate(items)

	require.Len(t, unique, 1)
	assert.Equal(t, "Valid", unique[0].Title)
}

func TestDeduplicateIdempotent(t *testing.T) {
	items := []Product{
		{Title: "A"},
		{Title: "B"},
		{Title: "a"},
	}

	once := Deduplicate(items)
	twice := Deduplicate(once)

	assert.Equal(t, once, twice)
}
