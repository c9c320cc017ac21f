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

package assistant

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/finda-ai/finda/internal/products"
)

// BusyMessage is the terminal sentinel for the analysis path. Unlike chat,
// product commentary has no local fallback: when every provider is down the
// caller shows this and the product list stands on its own.
const BusyMessage = "AI servisleri yoğunlukta. Lütfen biraz sonra tekrar deneyin."

// promptProductLimit caps how many products go into the commentary prompt.
const promptProductLimit = 10

// Commentary is the structured payload a provider returns for an analysis
// prompt.
type Commentary struct {
	Commentary string `json:"commentary"`
}

// Summary is the outcome of one Summarize call. Data is nil when Err is set.
type Summary struct {
	Data   *Commentary `json:"data,omitempty"`
	Source string      `json:"source,omitempty"`
	Err    string      `json:"error,omitempty"`
}

// Analyzer generates shopping commentary over a tagged product list through
// the provider chain, cached by product-list fingerprint.
type Analyzer struct {
	chain  Resolver
	logger *zap.Logger
}

// NewAnalyzer builds the commentary generator.
func NewAnalyzer(chain Resolver, logger *zap.Logger) *Analyzer {
	return &Analyzer{chain: chain, logger: logger}
}

// Summarize produces one short Turkish commentary for items. The input is
// expected to be tagged and ranked already; the fingerprint covers identity
// fields only, so tag order does not split the cache. Chain exhaustion
// yields the busy sentinel, not an empty commentary.
func (a *Analyzer) Summarize(ctx context.Context, items []products.Product) Summary {
	if len(items) == 0 {
		return Summary{Err: "Ürün bulunamadı."}
	}

	cacheKey := "analysis:" + Fingerprint(items)
	prompt := buildAnalysisPrompt(productsText(items))

	result := a.chain.Resolve(ctx, cacheKey, prompt)
	if result.Exhausted() {
		return Summary{Err: BusyMessage}
	}

	commentary, _ := result.Data["commentary"].(string)
	if commentary == "" {
		a.logger.Warn("analysis result missing commentary", zap.String("source", result.Source))
		return Summary{Err: BusyMessage}
	}
	return Summary{Data: &Commentary{Commentary: commentary}, Source: result.Source}
}

// Fingerprint derives a deterministic cache key from product identity
// fields. Derived fields and tags are excluded so re-tagging the same list
// hits the same entry.
func Fingerprint(items []products.Product) string {
	tuples := make([][]string, 0, len(items))
	for _, p := range items {
		tuples = append(tuples, []string{p.Title, p.Site, p.Price})
	}
	raw, _ := json.Marshal(tuples)
	sum := md5.Sum(raw)
	return hex.EncodeToString(sum[:])
}

func buildAnalysisPrompt(productsText string) string {
	return fmt.Sprintf(`Sen akıllı bir alışveriş asistanısın. Aşağıdaki ürünleri incele ve kullanıcıya samimi, kısa ve yardımcı bir yorum yap.
İlla bir karşılaştırma tablosu yapmana gerek yok, sadece genel bir öneri veya dikkat çekici bir noktayı belirtmen yeterli.
Yanıtını MUTLAKA şu JSON formatında ver, başka metin ekleme:
{
  "commentary": "buraya doğal ve yardımcı yorumunu yaz"
}

Ürünler:
%s`, productsText)
}

func productsText(items []products.Product) string {
	if len(items) > promptProductLimit {
		items = items[:promptProductLimit]
	}
	lines := make([]string, 0, len(items))
	for _, p := range items {
		rating := p.Rating
		if rating == "" {
			rating = "N/A"
		}
		reviews := p.ReviewCount
		if reviews == "" {
			reviews = "0"
		}
		lines = append(lines, fmt.Sprintf("%s | %s | %s TL | Puan:%s | Yorum:%s | Etiketler: %s",
			p.Title, p.Site, p.Price, rating, reviews, strings.Join(p.Tags, ", ")))
	}
	return strings.Join(lines, "\n")
}
