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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultOpenRouterURL is the chat completions endpoint.
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

	openRouterReferer = "https://finda.ai"
	openRouterTitle   = "Finda AI"
)

// DefaultOpenRouterModels are the free-tier models tried in order for
// structured analysis calls.
var DefaultOpenRouterModels = []string{
	"meta-llama/llama-3.1-8b-instruct:free",
	"google/gemma-2-9b-it:free",
	"mistralai/mistral-7b-instruct:free",
}

// DefaultOpenRouterChatModels is the shorter list used for free-form chat,
// where gemma's formatting quirks cost more than its quality buys.
var DefaultOpenRouterChatModels = []string{
	"meta-llama/llama-3.1-8b-instruct:free",
	"mistralai/mistral-7b-instruct:free",
}

// OpenRouter is the breadth-tier adapter. It speaks the endpoint directly
// over net/http because the call must carry OpenRouter's attribution headers.
// One Generate call walks the model list until one yields parsable JSON.
type OpenRouter struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
	logger  *zap.Logger
}

// NewOpenRouter creates the adapter. baseURL and models fall back to the
// defaults when empty.
func NewOpenRouter(apiKey, baseURL string, models []string, timeout time.Duration, logger *zap.Logger) *OpenRouter {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	if len(models) == 0 {
		models = DefaultOpenRouterModels
	}
	return &OpenRouter{
		apiKey:  apiKey,
		baseURL: baseURL,
		models:  models,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Name implements Provider.
func (o *OpenRouter) Name() string { return "openrouter" }

// Configured implements Provider.
func (o *OpenRouter) Configured() bool { return o.apiKey != "" }

type openRouterRequest struct {
	Model    string              `json:"model"`
	Messages []openRouterMessage `json:"messages"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate implements Provider.
func (o *OpenRouter) Generate(ctx context.Context, prompt string) (map[string]any, error) {
	var lastErr error
	for _, model := range o.models {
		text, err := o.call(ctx, model, prompt)
		if err != nil {
			lastErr = err
			o.logger.Warn("openrouter model failed",
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}
		if out, ok := ExtractJSON(text); ok {
			return out, nil
		}
		lastErr = fmt.Errorf("openrouter %s: no parsable JSON in response", model)
	}

	if lastErr == nil {
		lastErr = errors.New("openrouter: no models configured")
	}
	return nil, lastErr
}

func (o *OpenRouter) call(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(openRouterRequest{
		Model: model,
		Messages: []openRouterMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openrouter marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", openRouterReferer)
	req.Header.Set("X-Title", openRouterTitle)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("openrouter %s: status %d", model, resp.StatusCode)
	}

	var parsed openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openrouter %s: decode: %w", model, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter %s: empty choice list", model)
	}
	return parsed.Choices[0].Message.Content, nil
}
