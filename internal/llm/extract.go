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
	"encoding/json"
	"regexp"
)

// jsonBlock matches the first greedy brace-delimited block, newlines
// included. Providers wrap their JSON in prose often enough that plain
// decoding is not an option.
var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls a JSON object out of an unstructured text blob. It
// returns false on absence of a brace block or any parse failure; callers
// treat that identically to a failed provider call.
func ExtractJSON(text string) (map[string]any, bool) {
	match := jsonBlock.FindString(text)
	if match == "" {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(match), &out); err != nil {
		return nil, false
	}
	return out, true
}
