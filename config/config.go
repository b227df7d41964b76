// Package config loads process configuration from environment variables,
// with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the chat server.
type Config struct {
	// HTTP listen address, e.g. ":8080".
	Addr string

	// Model ids per role. The primary backend is OpenAI; Anthropic is the
	// fallback for every chain.
	RouterModel    string
	MentorModel    string
	GenericModel   string
	FallbackModel  string
	EmbeddingModel string

	AnthropicAPIKey string

	// SQLitePath backs both the transcript store and the domain stores.
	SQLitePath string

	// Qdrant settings; empty URL selects the in-memory index.
	QdrantURL           string
	QdrantAPIKey        string
	JobsCollection      string
	ResourcesCollection string
	EmbeddingDims       uint64

	// ToolLoopLimit caps tool execution rounds per turn.
	ToolLoopLimit int

	LogLevel string // debug, info, warn, error
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		Addr:                getEnv("ADDR", ":8080"),
		RouterModel:         getEnv("ROUTER_MODEL", "gpt-4.1-nano"),
		MentorModel:         getEnv("MENTOR_MODEL", "gpt-4.1-mini"),
		GenericModel:        getEnv("GENERIC_MODEL", "gpt-4.1-nano"),
		FallbackModel:       getEnv("FALLBACK_MODEL", "claude-3-5-sonnet-20241022"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		SQLitePath:          getEnv("SQLITE_PATH", "careerpilot.db"),
		QdrantURL:           os.Getenv("QDRANT_URL"),
		QdrantAPIKey:        os.Getenv("QDRANT_API_KEY"),
		JobsCollection:      getEnv("QDRANT_JOBS_COLLECTION", "jobs"),
		ResourcesCollection: getEnv("QDRANT_RESOURCES_COLLECTION", "resources"),
		EmbeddingDims:       getEnvUint("EMBEDDING_DIMS", 1536),
		ToolLoopLimit:       getEnvInt("TOOL_LOOP_LIMIT", 10),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks settings whose misconfiguration would only surface
// mid-conversation.
func (c *Config) Validate() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is required")
	}
	if c.ToolLoopLimit < 1 {
		return fmt.Errorf("config: TOOL_LOOP_LIMIT must be positive, got %d", c.ToolLoopLimit)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
