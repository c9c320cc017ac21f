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

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// ErrMissingRequiredField is returned when a required configuration field is missing
	ErrMissingRequiredField = errors.New("missing required configuration field")
	// ErrInvalidConfigValue is returned when a configuration value is invalid
	ErrInvalidConfigValue = errors.New("invalid configuration value")
)

// Config represents the complete application configuration
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers"`
	Products  ProductsConfig  `mapstructure:"products"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ProvidersConfig contains the generation provider tiers, in fallback order
type ProvidersConfig struct {
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Groq       GroqConfig       `mapstructure:"groq"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
}

// GeminiConfig contains the primary tier configuration
type GeminiConfig struct {
	APIKey         string   `mapstructure:"apikey"`
	Models         []string `mapstructure:"models"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// GroqConfig contains the speed tier configuration
type GroqConfig struct {
	APIKey         string `mapstructure:"apikey"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// OpenRouterConfig contains the breadth tier configuration
type OpenRouterConfig struct {
	APIKey         string   `mapstructure:"apikey"`
	BaseURL        string   `mapstructure:"base_url"`
	Models         []string `mapstructure:"models"`
	ChatModels     []string `mapstructure:"chat_models"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// ProductsConfig contains the catalog source configuration
type ProductsConfig struct {
	SerpAPIKey    string `mapstructure:"serpapi_key"`
	SerpURL       string `mapstructure:"serp_url"`
	FakeStoreURL  string `mapstructure:"fakestore_url"`
	SupplementMin int    `mapstructure:"supplement_min"`
	TTLSeconds    int    `mapstructure:"ttl_seconds"`
}

// CacheConfig contains the two cache tiers
type CacheConfig struct {
	RedisAddr          string `mapstructure:"redis_addr"`
	RedisPassword      string `mapstructure:"redis_password"`
	RedisDB            int    `mapstructure:"redis_db"`
	KeyPrefix          string `mapstructure:"key_prefix"`
	MemoryMaxEntries   int    `mapstructure:"memory_max_entries"`
	AnalysisTTLSeconds int    `mapstructure:"analysis_ttl_seconds"`
	PromoteTTLSeconds  int    `mapstructure:"promote_ttl_seconds"`
}

// ServerConfig contains the HTTP listener configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed for field '%s': %s", e.Field, e.Message)
}

// LoadOptions contains options for configuration loading
type LoadOptions struct {
	ConfigPath       string
	EnableHotReload  bool
	Environment      string
	ValidateRequired bool
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over config file values
func Load(configPath string) (*Config, error) {
	return LoadWithOptions(LoadOptions{
		ConfigPath:       configPath,
		EnableHotReload:  false,
		Environment:      getEnvironment(),
		ValidateRequired: true,
	})
}

// LoadWithOptions loads configuration with additional options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set configuration file path
	if err := setConfigFile(v, opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to set config file: %w", err)
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("FINDA")

	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error if env vars are set
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set explicit environment variable mappings
	setEnvironmentMappings(v)

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if opts.ValidateRequired {
		if err := validateConfig(&config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Provider defaults. Keys default to empty: an unconfigured tier is
	// skipped by the fallback chain, never an error.
	v.SetDefault("providers.gemini.models", []string{"gemini-1.5-flash", "gemini-1.5-pro"})
	v.SetDefault("providers.gemini.timeout_seconds", 10)

	v.SetDefault("providers.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("providers.groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("providers.groq.timeout_seconds", 10)

	v.SetDefault("providers.openrouter.base_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("providers.openrouter.models", []string{
		"meta-llama/llama-3.1-8b-instruct:free",
		"google/gemma-2-9b-it:free",
		"mistralai/mistral-7b-instruct:free",
	})
	v.SetDefault("providers.openrouter.chat_models", []string{
		"meta-llama/llama-3.1-8b-instruct:free",
		"mistralai/mistral-7b-instruct:free",
	})
	v.SetDefault("providers.openrouter.timeout_seconds", 15)

	// Product source defaults
	v.SetDefault("products.serp_url", "https://serpapi.com/search.json")
	v.SetDefault("products.fakestore_url", "https://fakestoreapi.com")
	v.SetDefault("products.supplement_min", 5)
	v.SetDefault("products.ttl_seconds", 600)

	// Cache defaults
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.key_prefix", "finda:")
	v.SetDefault("cache.memory_max_entries", 1024)
	v.SetDefault("cache.analysis_ttl_seconds", 3600)
	v.SetDefault("cache.promote_ttl_seconds", 300)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// setConfigFile sets the configuration file path with fallback logic
func setConfigFile(v *viper.Viper, configPath string) error {
	// Check for CONFIG_PATH environment variable
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return fmt.Errorf("config file specified by CONFIG_PATH does not exist: %s", envPath)
		}
		v.SetConfigFile(envPath)
		return nil
	}

	// Use provided config path
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file does not exist: %s", configPath)
		}
		v.SetConfigFile(configPath)
		return nil
	}

	// Default fallback locations. A missing file is fine: every key has a
	// default or an environment mapping.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	return nil
}

// setEnvironmentMappings sets explicit environment variable mappings
func setEnvironmentMappings(v *viper.Viper) {
	// Map common environment variables
	envMappings := map[string]string{
		"GEMINI_API_KEY":     "providers.gemini.apikey",
		"GROQ_API_KEY":       "providers.groq.apikey",
		"OPENROUTER_API_KEY": "providers.openrouter.apikey",
		"SERPAPI_KEY":        "products.serpapi_key",
		"REDIS_ADDR":         "cache.redis_addr",
		"REDIS_PASSWORD":     "cache.redis_password",
		"LOG_LEVEL":          "logging.level",
		"LOG_FORMAT":         "logging.format",
		"LOG_OUTPUT":         "logging.output",
	}

	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			v.Set(configKey, value)
		}
	}
}

// validateConfig validates the configuration for required fields and valid values
func validateConfig(config *Config) error {
	var errors []ValidationError

	// Provider API keys are deliberately not required: each missing key
	// disables one fallback tier. Timeouts must still be sane.
	if config.Providers.Gemini.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "providers.gemini.timeout_seconds",
			Message: "timeout_seconds must be greater than 0",
		})
	}

	if config.Providers.Groq.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "providers.groq.timeout_seconds",
			Message: "timeout_seconds must be greater than 0",
		})
	}

	if config.Providers.OpenRouter.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "providers.openrouter.timeout_seconds",
			Message: "timeout_seconds must be greater than 0",
		})
	}

	if config.Products.SupplementMin < 0 {
		errors = append(errors, ValidationError{
			Field:   "products.supplement_min",
			Message: "supplement_min must be greater than or equal to 0",
		})
	}

	if config.Products.TTLSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "products.ttl_seconds",
			Message: "ttl_seconds must be greater than 0",
		})
	}

	if config.Cache.MemoryMaxEntries <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.memory_max_entries",
			Message: "memory_max_entries must be greater than 0",
		})
	}

	if config.Cache.AnalysisTTLSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.analysis_ttl_seconds",
			Message: "analysis_ttl_seconds must be greater than 0",
		})
	}

	if config.Cache.PromoteTTLSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.promote_ttl_seconds",
			Message: "promote_ttl_seconds must be greater than 0",
		})
	}

	if config.Server.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Message: "server address is required",
		})
	}

	// Validate enum values
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, config.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("log level must be one of: %s", strings.Join(validLogLevels, ", ")),
		})
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, config.Logging.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("log format must be one of: %s", strings.Join(validLogFormats, ", ")),
		})
	}

	validServerModes := []string{"debug", "release", "test"}
	if !contains(validServerModes, config.Server.Mode) {
		errors = append(errors, ValidationError{
			Field:   "server.mode",
			Message: fmt.Sprintf("server mode must be one of: %s", strings.Join(validServerModes, ", ")),
		})
	}

	// Return all validation errors
	if len(errors) > 0 {
		var errorMessages []string
		for _, err := range errors {
			errorMessages = append(errorMessages, err.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errorMessages, "\n"))
	}

	return nil
}

// MaskSensitiveValues returns a copy of the config with sensitive values masked
func (c *Config) MaskSensitiveValues() *Config {
	masked := *c

	// Mask sensitive fields
	if masked.Providers.Gemini.APIKey != "" {
		masked.Providers.Gemini.APIKey = maskValue(masked.Providers.Gemini.APIKey)
	}
	if masked.Providers.Groq.APIKey != "" {
		masked.Providers.Groq.APIKey = maskValue(masked.Providers.Groq.APIKey)
	}
	if masked.Providers.OpenRouter.APIKey != "" {
		masked.Providers.OpenRouter.APIKey = maskValue(masked.Providers.OpenRouter.APIKey)
	}
	if masked.Products.SerpAPIKey != "" {
		masked.Products.SerpAPIKey = maskValue(masked.Products.SerpAPIKey)
	}
	if masked.Cache.RedisPassword != "" {
		masked.Cache.RedisPassword = maskValue(masked.Cache.RedisPassword)
	}

	return &masked
}

// maskValue masks sensitive values, showing only the first 8 characters
func maskValue(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:8] + strings.Repeat("*", len(value)-8)
}

// contains checks if a slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// getEnvironment returns the current environment (development, production, etc.)
func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "development"
}

// WatchConfig enables configuration hot-reloading for development
func WatchConfig(configPath string, logger *zap.Logger, callback func(*Config)) error {
	v := viper.New()

	// Set up configuration
	if err := setConfigFile(v, configPath); err != nil {
		return err
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file for watching: %w", err)
	}

	// Enable watching
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("Config file changed", zap.String("file", e.Name))

		// Reload configuration
		config, err := LoadWithOptions(LoadOptions{
			ConfigPath:       configPath,
			EnableHotReload:  true,
			Environment:      getEnvironment(),
			ValidateRequired: true,
		})
		if err != nil {
			logger.Warn("Failed to reload config", zap.Error(err))
			return
		}

		// Call callback with new config
		callback(config)
	})

	return nil
}
