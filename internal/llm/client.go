package llm

import (
	"context"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// LLMClient sends one system/user prompt pair to a chat model.
// InvokeModelWithRetry additionally retries transient provider failures.
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}
