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

// Package assistant turns raw user messages and fetched product lists into
// responses. It sits on top of the fallback chain: the chat path must always
// answer, so it carries a local keyword heuristic as its terminal tier; the
// analysis path may instead surface the busy sentinel.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/finda-ai/finda/internal/fallback"
)

// Message is one turn of conversation history. Role is "user" or
// "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Analysis is the resolved intent for one user message. Intent is "shopping"
// or "chat". Query is the English search term when Intent is shopping.
type Analysis struct {
	Intent   string `json:"intent"`
	Query    string `json:"query"`
	Response string `json:"response"`
	Source   string `json:"source,omitempty"`
}

const (
	// IntentShopping marks messages that should trigger a product search.
	IntentShopping = "shopping"
	// IntentChat marks plain conversation.
	IntentChat = "chat"

	defaultResponse = "Size nasıl yardımcı olabilirim?"

	// historyWindow is how many trailing turns of history go into the prompt.
	historyWindow = 3
)

// Resolver is the fallback entry point Chat depends on. *fallback.Chain
// satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, cacheKey, prompt string) fallback.Result
}

// Chat resolves message intent through the provider chain, degrading to the
// keyword heuristic when every provider tier is down.
type Chat struct {
	chain  Resolver
	logger *zap.Logger
}

// NewChat builds the chat resolver.
func NewChat(chain Resolver, logger *zap.Logger) *Chat {
	return &Chat{chain: chain, logger: logger}
}

// Resolve classifies message as shopping or chat, extracts the search query,
// and produces the Turkish reply. It never fails: chain exhaustion falls
// back to local keyword matching. Chat results are never cached, so the
// chain is called with an empty cache key.
func (c *Chat) Resolve(ctx context.Context, message string, history []Message) Analysis {
	prompt := buildChatPrompt(message, history)

	result := c.chain.Resolve(ctx, "", prompt)
	if result.Exhausted() {
		c.logger.Warn("chat chain exhausted, using keyword fallback")
		out := keywordFallback(message)
		out.Source = fallback.SourceNone
		return out
	}

	out := formatAnalysis(result.Data)
	out.Source = result.Source
	return out
}

func buildChatPrompt(message string, history []Message) string {
	past := "Yok"
	if len(history) > 0 {
		start := len(history) - historyWindow
		if start < 0 {
			start = 0
		}
		lines := make([]string, 0, historyWindow)
		for _, msg := range history[start:] {
			speaker := "AI"
			if msg.Role == "user" {
				speaker = "Kullanıcı"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Content))
		}
		past = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Sen Finda AI, bir alışveriş asistanısın. Kullanıcıyla doğal sohbet edebilir ve alışveriş ihtiyaçlarını anlayabilirsin.

Önceki konuşma:
%s

Kullanıcının son mesajı: "%s"

Görevin:
1. Kullanıcının niyetini belirle: ALISVERIS veya SOHBET
2. Eğer alışveriş niyeti varsa, aranacak ürünü İNGİLİZCE olarak çıkar. Eğer kullanıcı spesifik bir model (örn: "Adidas Nizza", "iPhone 15 Pro") belirttiyse, arama sorgusunu (query) OLABİLDİĞİNCE SPESİFİK tut (generalize etme).
3. Kullanıcıya Türkçe uygun bir yanıt oluştur

Yanıtını MUTLAKA şu JSON formatında ver:
{
    "intent": "ALISVERIS" veya "SOHBET",
    "query": "İNGİLİZCE veya SPESİFİK MODEL adı",
    "response": "kullanıcıya verilecek TÜRKÇE yanıt"
}`, past, message)
}

// formatAnalysis normalizes the provider's loose JSON into an Analysis.
// Anything that is not clearly a shopping intent is chat.
func formatAnalysis(data map[string]any) Analysis {
	intent := IntentChat
	if raw, ok := data["intent"].(string); ok && strings.Contains(strings.ToUpper(raw), "ALISVERIS") {
		intent = IntentShopping
	}

	query, _ := data["query"].(string)
	response, _ := data["response"].(string)
	if response == "" {
		response = defaultResponse
	}

	return Analysis{Intent: intent, Query: query, Response: response}
}

var greetings = []string{
	"merhaba", "selam", "nasılsın", "kimsin", "teşekkür", "sağol", "hey", "hi", "hello",
}

type category struct {
	query    string
	keywords []string
}

// fallbackCategories map Turkish and English product words to canonical
// search queries. Order matters: the first matching category wins.
var fallbackCategories = []category{
	{"laptop", []string{"laptop", "dizüstü", "macbook", "bilgisayar", "pc"}},
	{"phone", []string{"phone", "telefon", "iphone", "samsung", "mobile", "cep"}},
	{"headphones", []string{"kulaklık", "headphone", "airpods"}},
	{"shoes", []string{"ayakkabı", "sneaker", "bot"}},
	{"woman", []string{"kadın", "woman", "bayan"}},
}

// keywordFallback answers without any provider. Greetings get a canned
// reply; recognizable product words become a search; short messages are
// treated as queries verbatim; everything else gets a limited-mode notice.
func keywordFallback(message string) Analysis {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, g := range greetings {
		if lower == g {
			return Analysis{
				Intent:   IntentChat,
				Response: "Merhaba! Şu an yoğunluk nedeniyle kısıtlı moddayım ama ürün aramanıza yardımcı olabilirim. Ne aramıştınız?",
			}
		}
	}

	query := ""
	for _, cat := range fallbackCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				query = cat.query
				break
			}
		}
		if query != "" {
			break
		}
	}

	if query == "" && len(strings.Fields(lower)) <= 3 {
		query = lower
	}

	if query != "" {
		return Analysis{
			Intent:   IntentShopping,
			Query:    query,
			Response: fmt.Sprintf("%q için ürünleri buluyorum (Kısıtlı Mod aktif)...", message),
		}
	}

	return Analysis{
		Intent:   IntentChat,
		Response: "Şu an kısıtlı moddayım. Lütfen aramak istediğiniz ürünü yazın.",
	}
}
