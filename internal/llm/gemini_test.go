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
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

func stubGemini(call func(ctx context.Context, model, prompt string) (string, error)) *Gemini {
	g := NewGemini("key", nil, time.Second, zap.NewNop())
	g.call = call
	return g
}

func TestGeminiGenerate(t *testing.T) {
	var gotModel, gotPrompt string
	g := stubGemini(func(_ context.Context, model, prompt string) (string, error) {
		gotModel = model
		gotPrompt = prompt
		return `Tabii: {"intent": "SOHBET", "response": "Merhaba!"}`, nil
	})

	out, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", gotModel)
	assert.Equal(t, "prompt", gotPrompt)
	assert.Equal(t, "SOHBET", out["intent"])
	assert.Equal(t, "Merhaba!", out["response"])
}

func TestGeminiModelFallthrough(t *testing.T) {
	var models []string
	g := stubGemini(func(_ context.Context, model, _ string) (string, error) {
		models = append(models, model)
		if model == "gemini-1.5-flash" {
			return "", errors.New("internal error")
		}
		return `{"response": "pro"}`, nil
	})

	out, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	// A non-quota failure moves on to the next model in the list.
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-1.5-pro"}, models)
	assert.Equal(t, "pro", out["response"])
}

func TestGeminiRateLimitAbortsRemainingModels(t *testing.T) {
	var calls int
	g := stubGemini(func(_ context.Context, _, _ string) (string, error) {
		calls++
		return "", &googleapi.Error{Code: 429, Message: "quota exceeded"}
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)

	// The quota is account-wide, so the second model is never tried.
	assert.Equal(t, 1, calls)
}

func TestGeminiUnparsableReply(t *testing.T) {
	g := stubGemini(func(_ context.Context, _, _ string) (string, error) {
		return "no json here", nil
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parsable JSON")
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"googleapi 429", &googleapi.Error{Code: 429}, true},
		{"wrapped googleapi 429", fmt.Errorf("call: %w", &googleapi.Error{Code: 429}), true},
		{"googleapi 500", &googleapi.Error{Code: 500}, false},
		{"plain 429 text", errors.New("rpc error: code 429 resource exhausted"), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRateLimited(tt.err))
		})
	}
}

func TestGeminiConfigured(t *testing.T) {
	assert.False(t, NewGemini("", nil, time.Second, zap.NewNop()).Configured())
	assert.True(t, NewGemini("key", nil, time.Second, zap.NewNop()).Configured())
}

func TestGeminiDefaults(t *testing.T) {
	g := NewGemini("key", nil, time.Second, zap.NewNop())
	assert.Equal(t, DefaultGeminiModels, g.models)
	assert.Equal(t, "gemini", g.Name())
}
