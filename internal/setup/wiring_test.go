package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/quota"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "OPEN_AI_MODEL_ID", "DEFAULT_LLM_PROVIDER", "DAILY_LIMIT",
		"QUOTA_STORE", "QUOTA_TIMEZONE", "DEBATE_AGENT_API_PORT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.DefaultProvider != ProviderOpenAI {
		t.Errorf("Expected openai provider, got %s", cfg.DefaultProvider)
	}
	if cfg.OpenAIModelID != "gpt-4o-mini" {
		t.Errorf("Expected gpt-4o-mini, got %s", cfg.OpenAIModelID)
	}
	if cfg.DailyLimit != 5 {
		t.Errorf("Expected daily limit 5, got %d", cfg.DailyLimit)
	}
	if cfg.QuotaStore != QuotaStoreMemory {
		t.Errorf("Expected memory quota store, got %s", cfg.QuotaStore)
	}
	if cfg.APIPort != "18082" {
		t.Errorf("Expected port 18082, got %s", cfg.APIPort)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DAILY_LIMIT", "12")
	t.Setenv("QUOTA_STORE", "redis")
	t.Setenv("OPEN_AI_MODEL_ID", "gpt-4o")

	cfg := LoadConfig()

	if cfg.DailyLimit != 12 {
		t.Errorf("Expected daily limit 12, got %d", cfg.DailyLimit)
	}
	if cfg.QuotaStore != QuotaStoreRedis {
		t.Errorf("Expected redis quota store, got %s", cfg.QuotaStore)
	}
	if cfg.OpenAIModelID != "gpt-4o" {
		t.Errorf("Expected gpt-4o, got %s", cfg.OpenAIModelID)
	}
}

func TestLoadConfig_InvalidLimitFallsBack(t *testing.T) {
	t.Setenv("DAILY_LIMIT", "lots")

	if cfg := LoadConfig(); cfg.DailyLimit != quota.DefaultDailyLimit {
		t.Errorf("Expected default limit, got %d", cfg.DailyLimit)
	}
}

func TestCreateLLMClient(t *testing.T) {
	ctx := context.Background()

	client, err := createLLMClient(ctx, ProviderOpenAI, &Config{})
	if err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if _, err := client.InvokeModel(ctx, llm.LLMRequest{}); err == nil || err.Error() != "OPENAI_API_KEY not configured" {
		t.Errorf("Expected missing key error, got %v", err)
	}

	client, err = createLLMClient(ctx, ProviderOpenAI, &Config{OpenAIKey: "sk-test", OpenAIModelID: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if gptClient, ok := client.(*gpt.Client); !ok || gptClient.ModelID != "gpt-4o-mini" {
		t.Errorf("Expected OpenAI client, got %T", client)
	}

	client, err = createLLMClient(ctx, ProviderBedrock, &Config{})
	if err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if _, err := client.InvokeModel(ctx, llm.LLMRequest{}); !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}

	client, err = createLLMClient(ctx, ProviderBedrock, &Config{AWSRegion: "us-east-1", ClaudeModelID: "anthropic.claude"})
	if err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if _, ok := client.(*bedrock.Client); !ok {
		t.Errorf("Expected Bedrock client, got %T", client)
	}

	if _, err := createLLMClient(ctx, "mistral", &Config{}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestCreateQuotaChecker_Memory(t *testing.T) {
	checker, closeFn, err := createQuotaChecker(context.Background(), &Config{QuotaStore: QuotaStoreMemory, DailyLimit: 2})
	if err != nil {
		t.Fatalf("createQuotaChecker failed: %v", err)
	}
	if closeFn != nil {
		t.Error("Expected no closer for the memory store")
	}

	limiter, ok := checker.(*quota.Limiter)
	if !ok {
		t.Fatalf("Expected *quota.Limiter, got %T", checker)
	}
	if limiter.Limit() != 2 {
		t.Errorf("Expected limit 2, got %d", limiter.Limit())
	}
}

func TestCreateQuotaChecker_Redis(t *testing.T) {
	server := miniredis.RunT(t)

	cfg := &Config{
		QuotaStore:      QuotaStoreRedis,
		QuotaTimezone:   "UTC",
		DailyLimit:      1,
		RedisAddr:       server.Addr(),
		RedisMaxRetries: 1,
	}

	checker, closeFn, err := createQuotaChecker(context.Background(), cfg)
	if err != nil {
		t.Fatalf("createQuotaChecker failed: %v", err)
	}
	defer func() { _ = closeFn() }()

	ctx := context.Background()
	if err := checker.Allow(ctx, "caller"); err != nil {
		t.Fatalf("Expected first request to pass: %v", err)
	}
	if err := checker.Allow(ctx, "caller"); !errors.Is(err, quota.ErrLimitReached) {
		t.Errorf("Expected ErrLimitReached, got %v", err)
	}
}

func TestCreateQuotaChecker_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "bad timezone", cfg: Config{QuotaStore: QuotaStoreMemory, QuotaTimezone: "Mars/Olympus"}},
		{name: "unknown store", cfg: Config{QuotaStore: "etcd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := createQuotaChecker(context.Background(), &tt.cfg); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestWire_MemoryQuota(t *testing.T) {
	t.Setenv("PROMPTS_CONFIG_PATH", "")

	cfg := &Config{
		DefaultProvider: ProviderOpenAI,
		QuotaStore:      QuotaStoreMemory,
		DailyLimit:      quota.DefaultDailyLimit,
	}

	deps, err := Wire(context.Background(), cfg, newTestLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer func() { _ = deps.Close() }()

	if deps.Generator == nil || deps.Quota == nil {
		t.Fatal("Expected generator and quota to be wired")
	}

	for i := range quota.DefaultDailyLimit {
		if err := deps.Quota.Allow(context.Background(), "0"); err != nil {
			t.Fatalf("Request %d: unexpected error %v", i+1, err)
		}
	}
	if err := deps.Quota.Allow(context.Background(), "0"); !errors.Is(err, quota.ErrLimitReached) {
		t.Errorf("Expected ErrLimitReached, got %v", err)
	}
}

func TestWireGenerator_BadPromptsPath(t *testing.T) {
	t.Setenv("PROMPTS_CONFIG_PATH", "/nonexistent/prompts.yaml")

	_, err := WireGenerator(context.Background(), &Config{DefaultProvider: ProviderOpenAI}, newTestLogger())
	if err == nil {
		t.Fatal("Expected error for missing prompts file")
	}
}
