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
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	// DefaultGroqModel is the fast-tier workhorse.
	DefaultGroqModel = "llama-3.3-70b-versatile"

	groqTemperature = 0.3
)

// Groq is the speed-tier adapter. It talks Groq's OpenAI-compatible API with
// forced JSON output, so the extraction step rarely has prose to strip.
type Groq struct {
	apiKey  string
	model   string
	client  *openai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewGroq creates the adapter. baseURL and model fall back to the defaults
// when empty.
func NewGroq(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) *Groq {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if model == "" {
		model = DefaultGroqModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Groq{
		apiKey:  apiKey,
		model:   model,
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
		logger:  logger,
	}
}

// Name implements Provider.
func (g *Groq) Name() string { return "groq" }

// Configured implements Provider.
func (g *Groq) Configured() bool { return g.apiKey != "" }

// Generate implements Provider.
func (g *Groq) Generate(ctx context.Context, prompt string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: groqTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("groq %s: %w", g.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("groq: empty choice list")
	}

	out, ok := ExtractJSON(resp.Choices[0].Message.Content)
	if !ok {
		return nil, fmt.Errorf("groq %s: no parsable JSON in response", g.model)
	}
	return out, nil
}
