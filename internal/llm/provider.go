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

// Package llm contains the adapters for the external text-generation
// providers and the response extraction shared between them. Adapters never
// let transport errors escape the orchestration layer: a failed call is an
// error the orchestrator logs before moving to the next tier.
package llm

import "context"

// Provider is the uniform contract for one external generation service.
type Provider interface {
	// Name identifies the provider as a result-source tag.
	Name() string
	// Configured reports whether the provider has credentials. Unconfigured
	// providers are skipped by the fallback chain, not treated as failures.
	Configured() bool
	// Generate sends the prompt and returns the structured JSON object parsed
	// from the provider's reply, or an error when the call failed or the
	// reply carried no parsable JSON.
	Generate(ctx context.Context, prompt string) (map[string]any, error)
}
