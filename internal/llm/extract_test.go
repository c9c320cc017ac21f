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

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	out, ok := ExtractJSON(`{"intent": "ALISVERIS", "query": "laptop"}`)
	require.True(t, ok)
	assert.Equal(t, "ALISVERIS", out["intent"])
	assert.Equal(t, "laptop", out["query"])
}

func TestExtractJSONFromProse(t *testing.T) {
	text := "Sure, here is the result:\n```json\n{\"commentary\": \"iyi fiyat\"}\n```\nHope that helps!"
	out, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.Equal(t, "iyi fiyat", out["commentary"])
}

func TestExtractJSONMultiline(t *testing.T) {
	text := "prefix {\n  \"a\": 1,\n  \"b\": {\"c\": 2}\n} suffix"
	out, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.Equal(t, float64(1), out["a"])
}

func TestExtractJSONNoBraces(t *testing.T) {
	_, ok := ExtractJSON("no json here")
	assert.False(t, ok)
}

func TestExtractJSONMalformed(t *testing.T) {
	_, ok := ExtractJSON(`{"unterminated": `)
	assert.False(t, ok)
}

func TestExtractJSONEmpty(t *testing.T) {
	_, ok := ExtractJSON("")
	assert.False(t, ok)
}
