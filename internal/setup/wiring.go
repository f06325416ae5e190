package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/debate-agent/internal/config"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/generator"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/quota"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/redis"
	"github.com/rs/zerolog"
)

const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"

	QuotaStoreMemory = "memory"
	QuotaStoreRedis  = "redis"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
	DailyLimit      int
	QuotaStore      string
	QuotaTimezone   string
	RedisAddr       string
	RedisPassword   string
	RedisMaxRetries int
	APIPort         string
	LogLevel        string
	LogFormat       string
}

type Dependencies struct {
	Generator *generator.Generator
	Quota     quota.Checker
	Logger    *zerolog.Logger
	closers   []func() error
}

// Close releases connections opened by Wire.
func (d *Dependencies) Close() error {
	var firstErr error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", gpt.DefaultModelID),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", ProviderOpenAI),
		DailyLimit:      getEnvInt("DAILY_LIMIT", quota.DefaultDailyLimit),
		QuotaStore:      getEnv("QUOTA_STORE", QuotaStoreMemory),
		QuotaTimezone:   getEnv("QUOTA_TIMEZONE", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisMaxRetries: getEnvInt("REDIS_MAX_RETRIES", 5),
		APIPort:         getEnv("DEBATE_AGENT_API_PORT", "18082"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}
}

// Wire builds everything the HTTP API needs, including the quota checker.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	deps, err := WireGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	checker, closeFn, err := createQuotaChecker(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create quota checker: %w", err)
	}
	deps.Quota = checker
	if closeFn != nil {
		deps.closers = append(deps.closers, closeFn)
	}

	logger.Info().
		Str("provider", cfg.DefaultProvider).
		Str("quota_store", cfg.QuotaStore).
		Int("daily_limit", cfg.DailyLimit).
		Msg("Dependencies wired")

	return deps, nil
}

// WireGenerator builds the generation pipeline without a quota checker.
// Used by the MCP server and the batch CLI.
func WireGenerator(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	promptsConfig, err := config.LoadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	gen, err := generator.NewGenerator(promptsConfig, llmClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	return &Dependencies{
		Generator: gen,
		Logger:    logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		value = defaultValue
	}

	return value
}

// createLLMClient returns a client that fails every call when the provider's
// credentials are missing, so the server still starts and reports the
// missing setting per request.
func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case ProviderBedrock:
		if cfg.ClaudeModelID == "" {
			return llm.UnconfiguredClient{Setting: "CLAUDE_MODEL_ID"}, nil
		}
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return llm.UnconfiguredClient{Setting: "OPENAI_API_KEY"}, nil
		}
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

func createQuotaChecker(ctx context.Context, cfg *Config) (quota.Checker, func() error, error) {
	loc := time.Local
	if cfg.QuotaTimezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.QuotaTimezone)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid QUOTA_TIMEZONE %q: %w", cfg.QuotaTimezone, err)
		}
	}

	switch cfg.QuotaStore {
	case QuotaStoreMemory:
		return quota.NewLimiter(quota.NewMemoryStore(), cfg.DailyLimit, quota.WithLocation(loc)), nil, nil
	case QuotaStoreRedis:
		client, err := redis.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisMaxRetries)
		if err != nil {
			return nil, nil, err
		}
		return quota.NewRedisLimiter(client, cfg.DailyLimit, quota.WithLocation(loc)), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown quota store %q", cfg.QuotaStore)
	}
}
