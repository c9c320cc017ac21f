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

package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/finda-ai/finda/internal/assistant"
)

// maxHistoryMessages bounds the per-conversation message list. The prompt
// only ever sees the trailing turns, so older ones can go.
const maxHistoryMessages = 50

// Histories is the in-memory conversation store. Conversations live for the
// process lifetime only; there is deliberately no persistence behind them.
type Histories struct {
	mu            sync.Mutex
	conversations map[string][]assistant.Message
}

// NewHistories creates an empty store.
func NewHistories() *Histories {
	return &Histories{conversations: make(map[string][]assistant.Message)}
}

// Ensure returns id when it names a known conversation, otherwise a fresh
// conversation ID.
func (h *Histories) Ensure(id string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conversations[id]; ok && id != "" {
		return id
	}
	id = fmt.Sprintf("conv_%d", time.Now().UnixNano())
	h.conversations[id] = nil
	return id
}

// Get returns a copy of the conversation's messages.
func (h *Histories) Get(id string) []assistant.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := h.conversations[id]
	out := make([]assistant.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds one message, dropping the oldest past the bound.
func (h *Histories) Append(id string, msg assistant.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := append(h.conversations[id], msg)
	if len(msgs) > maxHistoryMessages {
		msgs = msgs[len(msgs)-maxHistoryMessages:]
	}
	h.conversations[id] = msgs
}

// Delete removes the conversation.
func (h *Histories) Delete(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conversations, id)
}
