package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm"
)

type fakeRuntime struct {
	calls  int
	errs   []error
	body   []byte
	lastIn *bedrockruntime.InvokeModelInput
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.calls++
	f.lastIn = params
	if len(f.errs) >= f.calls && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func newTestClient(runtime *fakeRuntime) *Client {
	return &Client{
		Client:       runtime,
		ModelID:      "anthropic.claude-test",
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	}
}

func TestInvokeModel_SendsSystemPrompt(t *testing.T) {
	runtime := &fakeRuntime{
		body: []byte(`{"content":[{"type":"text","text":"[\"a\"]"}],"stop_reason":"end_turn"}`),
	}
	client := newTestClient(runtime)

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{
		SystemPrompt: "be brief",
		Prompt:       "write hooks",
		MaxTokens:    800,
		Temperature:  0.9,
	})
	if err != nil {
		t.Fatalf("InvokeModel failed: %v", err)
	}
	if resp.Content != `["a"]` {
		t.Errorf("Unexpected content %q", resp.Content)
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("Unexpected stop reason %q", resp.StopReason)
	}

	var sent messagesRequest
	if err := json.Unmarshal(runtime.lastIn.Body, &sent); err != nil {
		t.Fatalf("Invalid request body: %v", err)
	}
	if sent.System != "be brief" {
		t.Errorf("Expected system prompt, got %q", sent.System)
	}
	if len(sent.Messages) != 1 || sent.Messages[0].Content != "write hooks" {
		t.Errorf("Unexpected messages %+v", sent.Messages)
	}
	if sent.MaxTokens != 800 || sent.Temperature != 0.9 {
		t.Errorf("Unexpected params max_tokens=%d temperature=%f", sent.MaxTokens, sent.Temperature)
	}
	if *runtime.lastIn.ModelId != "anthropic.claude-test" {
		t.Errorf("Unexpected model id %s", *runtime.lastIn.ModelId)
	}
}

func TestInvokeModelWithRetry_RetriesThrottling(t *testing.T) {
	runtime := &fakeRuntime{
		errs: []error{&types.ThrottlingException{Message: aws.String("Rate exceeded")}, nil},
		body: []byte(`{"content":[{"type":"text","text":"ok"}],"stop_reason":"end_turn"}`),
	}
	client := newTestClient(runtime)

	resp, err := client.InvokeModelWithRetry(context.Background(), llm.LLMRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("InvokeModelWithRetry failed: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Unexpected content %q", resp.Content)
	}
	if runtime.calls != 2 {
		t.Errorf("Expected 2 calls, got %d", runtime.calls)
	}
}

func TestInvokeModelWithRetry_NonRetryable(t *testing.T) {
	runtime := &fakeRuntime{
		errs: []error{&types.ValidationException{Message: aws.String("bad input")}},
	}
	client := newTestClient(runtime)

	if _, err := client.InvokeModelWithRetry(context.Background(), llm.LLMRequest{Prompt: "hi"}); err == nil {
		t.Fatal("Expected error")
	}
	if runtime.calls != 1 {
		t.Errorf("Expected 1 call, got %d", runtime.calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "throttling", err: &types.ThrottlingException{}, expected: true},
		{name: "wrapped unavailable", err: fmt.Errorf("invoke: %w", &types.ServiceUnavailableException{}), expected: true},
		{name: "generic throttle code", err: &smithy.GenericAPIError{Code: "TooManyRequestsException"}, expected: true},
		{name: "quota exceeded", err: &smithy.GenericAPIError{Code: "ServiceQuotaExceededException"}, expected: false},
		{name: "access denied", err: &types.AccessDeniedException{}, expected: false},
		{name: "plain error", err: errors.New("boom"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestInvokeModel_JoinsTextBlocks(t *testing.T) {
	runtime := &fakeRuntime{
		body: []byte(`{"content":[{"type":"text","text":"[\"a\","},{"type":"tool_use"},{"type":"text","text":"\"b\"]"}],"stop_reason":"max_tokens"}`),
	}

	resp, err := newTestClient(runtime).InvokeModel(context.Background(), llm.LLMRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("InvokeModel failed: %v", err)
	}
	if resp.Content != `["a","b"]` {
		t.Errorf("Unexpected content %q", resp.Content)
	}
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := range 6 {
		delay := backoff(attempt, 100*time.Millisecond, time.Second)
		if delay < 80*time.Millisecond || delay > 1200*time.Millisecond {
			t.Errorf("attempt %d: delay %s out of bounds", attempt, delay)
		}
	}
}
