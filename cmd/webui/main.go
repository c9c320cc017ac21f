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

// Package main runs the Finda web service: the chat endpoint over the
// assistant core, with the provider fallback chains and product aggregation
// wired from configuration.
package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/finda-ai/finda/internal/assistant"
	"github.com/finda-ai/finda/internal/cache"
	"github.com/finda-ai/finda/internal/config"
	"github.com/finda-ai/finda/internal/fallback"
	"github.com/finda-ai/finda/internal/llm"
	"github.com/finda-ai/finda/internal/products"
	"github.com/finda-ai/finda/internal/server"
)

// redisPingTimeout bounds the startup connectivity probe. A dead Redis must
// not block boot; the cache degrades to the in-process tier.
const redisPingTimeout = 3 * time.Second

func main() {
	// Local development keeps credentials in .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fallbackLogger, _ := zap.NewProduction()
		fallbackLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, logLevel := buildLogger(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	// Hot reload retunes the log level without a restart. Everything else
	// keeps the boot-time wiring; absence of a config file disables watching.
	if err := config.WatchConfig("", logger, func(next *config.Config) {
		var lvl zapcore.Level
		if err := lvl.Set(next.Logging.Level); err != nil {
			return
		}
		logLevel.SetLevel(lvl)
		logger.Info("Log level reloaded", zap.String("level", next.Logging.Level))
	}); err != nil {
		logger.Debug("Config hot reload disabled", zap.Error(err))
	}

	shared := connectRedis(cfg.Cache, logger)

	promoteTTL := time.Duration(cfg.Cache.PromoteTTLSeconds) * time.Second
	analysisStore := cache.NewTiered(cache.NewMemory(cfg.Cache.MemoryMaxEntries), shared, promoteTTL)
	productStore := cache.NewTiered(cache.NewMemory(cfg.Cache.MemoryMaxEntries), shared, promoteTTL)

	gemini := llm.NewGemini(
		cfg.Providers.Gemini.APIKey,
		cfg.Providers.Gemini.Models,
		time.Duration(cfg.Providers.Gemini.TimeoutSeconds)*time.Second,
		logger,
	)
	groq := llm.NewGroq(
		cfg.Providers.Groq.APIKey,
		cfg.Providers.Groq.BaseURL,
		cfg.Providers.Groq.Model,
		time.Duration(cfg.Providers.Groq.TimeoutSeconds)*time.Second,
		logger,
	)
	openRouterTimeout := time.Duration(cfg.Providers.OpenRouter.TimeoutSeconds) * time.Second
	openRouter := llm.NewOpenRouter(
		cfg.Providers.OpenRouter.APIKey,
		cfg.Providers.OpenRouter.BaseURL,
		cfg.Providers.OpenRouter.Models,
		openRouterTimeout,
		logger,
	)
	openRouterChat := llm.NewOpenRouter(
		cfg.Providers.OpenRouter.APIKey,
		cfg.Providers.OpenRouter.BaseURL,
		cfg.Providers.OpenRouter.ChatModels,
		openRouterTimeout,
		logger,
	)

	analysisChain := fallback.NewChain(
		[]llm.Provider{gemini, groq, openRouter},
		analysisStore,
		time.Duration(cfg.Cache.AnalysisTTLSeconds)*time.Second,
		logger,
	)
	// Chat replies depend on conversation history, so they are never cached.
	chatChain := fallback.NewChain(
		[]llm.Provider{gemini, groq, openRouterChat},
		nil,
		0,
		logger,
	)

	serp := products.NewSerpSource(cfg.Products.SerpAPIKey, cfg.Products.SerpURL, 10*time.Second, logger)
	fakeStore := products.NewFakeStoreSource(cfg.Products.FakeStoreURL, 5*time.Second, logger)
	aggregator := products.NewAggregator(
		serp,
		fakeStore,
		productStore,
		time.Duration(cfg.Products.TTLSeconds)*time.Second,
		cfg.Products.SupplementMin,
		logger,
	)

	chat := assistant.NewChat(chatChain, logger)
	analyzer := assistant.NewAnalyzer(analysisChain, logger)

	gin.SetMode(cfg.Server.Mode)
	srv := server.New(chat, analyzer, aggregator, logger)

	logger.Info("Starting Finda server",
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("gemini", gemini.Configured()),
		zap.Bool("groq", groq.Configured()),
		zap.Bool("openrouter", openRouter.Configured()),
		zap.Bool("redis", shared != nil),
	)

	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// buildLogger constructs the zap logger from the logging section. The
// returned atomic level stays adjustable after the logger is built, which is
// what config hot reload hooks into.
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, zap.AtomicLevel) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}
	atomic := zap.NewAtomicLevelAt(level)

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = atomic
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger, atomic
}

// connectRedis returns the shared cache tier, or nil when Redis is not
// configured or unreachable.
func connectRedis(cfg config.CacheConfig, logger *zap.Logger) cache.Store {
	if cfg.RedisAddr == "" {
		logger.Info("Redis not configured, using in-process cache only")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-process cache only",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return nil
	}

	return cache.NewRedis(client, cfg.KeyPrefix, logger)
}
