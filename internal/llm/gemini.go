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
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultGeminiModels are the candidate models tried in order within one
// call, best quality first.
var DefaultGeminiModels = []string{"gemini-1.5-flash", "gemini-1.5-pro"}

// Gemini is the primary provider adapter. One Generate call walks the model
// list until a model yields parsable JSON; a rate-limit failure aborts the
// remaining models because the quota applies account-wide.
type Gemini struct {
	apiKey  string
	models  []string
	timeout time.Duration
	logger  *zap.Logger

	// call runs one model against the prompt and returns the raw reply text.
	// Overridable so the model walk can be tested without the SDK transport.
	call func(ctx context.Context, model, prompt string) (string, error)
}

// NewGemini creates the adapter. models falls back to DefaultGeminiModels
// when empty.
func NewGemini(apiKey string, models []string, timeout time.Duration, logger *zap.Logger) *Gemini {
	if len(models) == 0 {
		models = DefaultGeminiModels
	}
	return &Gemini{
		apiKey:  apiKey,
		models:  models,
		timeout: timeout,
		logger:  logger,
	}
}

// Name implements Provider.
func (g *Gemini) Name() string { return "gemini" }

// Configured implements Provider.
func (g *Gemini) Configured() bool { return g.apiKey != "" }

// Generate implements Provider.
func (g *Gemini) Generate(ctx context.Context, prompt string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	call := g.call
	if call == nil {
		client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		defer client.Close()
		call = func(ctx context.Context, model, prompt string) (string, error) {
			resp, err := client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", err
			}
			return candidateText(resp), nil
		}
	}

	var lastErr error
	for _, name := range g.models {
		text, err := call(ctx, name, prompt)
		if err != nil {
			lastErr = fmt.Errorf("gemini %s: %w", name, err)
			g.logger.Warn("gemini model failed",
				zap.String("model", name),
				zap.Error(err),
			)
			if isRateLimited(err) {
				break
			}
			continue
		}

		if out, ok := ExtractJSON(text); ok {
			return out, nil
		}
		lastErr = fmt.Errorf("gemini %s: no parsable JSON in response", name)
	}

	if lastErr == nil {
		lastErr = errors.New("gemini: no models configured")
	}
	return nil, lastErr
}

func isRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return strings.Contains(err.Error(), "429")
}

func candidateText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
