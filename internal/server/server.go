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

// Package server is the HTTP surface over the assistant core: one chat
// endpoint that classifies, searches, tags, and summarizes, plus health.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finda-ai/finda/internal/assistant"
	"github.com/finda-ai/finda/internal/intent"
	"github.com/finda-ai/finda/internal/products"
)

// ChatResolver resolves a user message into intent, query, and reply.
// *assistant.Chat satisfies it.
type ChatResolver interface {
	Resolve(ctx context.Context, message string, history []assistant.Message) assistant.Analysis
}

// Summarizer generates commentary for a tagged product list.
// *assistant.Analyzer satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, items []products.Product) assistant.Summary
}

// Searcher fetches the merged product list for a query.
// *products.Aggregator satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, compareMode bool) []products.Product
}

// ChatRequest is one inbound user message.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
	CompareMode    bool   `json:"compare_mode"`
}

// FlightRoute is returned when the message is travel-related; the product
// pipeline is skipped entirely and the caller owns the flight search.
type FlightRoute struct {
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ChatResponse is the reply for one message.
type ChatResponse struct {
	ConversationID string             `json:"conversation_id"`
	Intent         string             `json:"intent"`
	Response       string             `json:"response"`
	Products       []products.Product `json:"products,omitempty"`
	Summary        *assistant.Summary `json:"ai_summary,omitempty"`
	Flight         *FlightRoute       `json:"flight,omitempty"`
	Source         string             `json:"source,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// Server wires the chat resolver, product aggregator, and analyzer behind
// the HTTP API.
type Server struct {
	logger    *zap.Logger
	chat      ChatResolver
	analyzer  Summarizer
	catalog   Searcher
	histories *Histories
}

// New creates the server.
func New(chat ChatResolver, analyzer Summarizer, catalog Searcher, logger *zap.Logger) *Server {
	return &Server{
		logger:    logger,
		chat:      chat,
		analyzer:  analyzer,
		catalog:   catalog,
		histories: NewHistories(),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/api/health", s.handleHealth)
	router.POST("/api/chat", s.handleChat)
	router.DELETE("/api/conversations/:id", s.handleDeleteConversation)

	return router
}

// handleHealth returns the health status
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "finda"})
}

// handleChat processes one user message end to end.
func (s *Server) handleChat(c *gin.Context) {
	ctx := c.Request.Context()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ChatResponse{Error: "Invalid request format"})
		return
	}

	convID := s.histories.Ensure(req.ConversationID)
	history := s.histories.Get(convID)
	s.histories.Append(convID, assistant.Message{Role: "user", Content: req.Message})

	// Travel messages never reach the product pipeline.
	if cls := intent.Classify(req.Message); cls.ShouldRoute() {
		resp := ChatResponse{
			ConversationID: convID,
			Intent:         "travel",
			Response:       "Uçuş aramanızı başlatıyorum...",
			Flight: &FlightRoute{
				Query:      req.Message,
				Confidence: cls.Confidence,
				Reason:     cls.Reason,
			},
		}
		s.histories.Append(convID, assistant.Message{Role: "assistant", Content: resp.Response})
		c.JSON(http.StatusOK, resp)
		return
	}

	analysis := s.chat.Resolve(ctx, req.Message, history)
	resp := ChatResponse{
		ConversationID: convID,
		Intent:         analysis.Intent,
		Response:       analysis.Response,
		Source:         analysis.Source,
	}

	if analysis.Intent == assistant.IntentShopping && analysis.Query != "" {
		resp = s.completeShopping(ctx, resp, analysis, req.CompareMode)
	}

	s.histories.Append(convID, assistant.Message{Role: "assistant", Content: resp.Response})
	c.JSON(http.StatusOK, resp)
}

// completeShopping runs the product pipeline for a shopping intent. A failed
// or empty search degrades to a friendly reply, never an HTTP error.
func (s *Server) completeShopping(ctx context.Context, resp ChatResponse, analysis assistant.Analysis, compareMode bool) ChatResponse {
	items := s.catalog.Search(ctx, analysis.Query, compareMode)
	if len(items) == 0 {
		resp.Response = fmt.Sprintf("%q için ürün bulunamadı. Başka bir şey aramak ister misiniz?", analysis.Query)
		return resp
	}

	tagged := products.TagAndRank(items)
	summary := s.analyzer.Summarize(ctx, tagged)

	resp.Products = tagged
	resp.Summary = &summary
	if resp.Response == "" {
		resp.Response = fmt.Sprintf("%q için %d ürün buldum:", analysis.Query, len(tagged))
	}
	return resp
}

// handleDeleteConversation drops a conversation's history.
func (s *Server) handleDeleteConversation(c *gin.Context) {
	s.histories.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}
