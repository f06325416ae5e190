package llm

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("llm client not configured")

// NotConfiguredError names the missing setting that prevents calling a provider.
type NotConfiguredError struct {
	Setting string
}

func (e *NotConfiguredError) Error() string {
	return e.Setting + " not configured"
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrNotConfigured
}

// UnconfiguredClient stands in for a provider whose credentials are missing.
// Every call fails without touching the network.
type UnconfiguredClient struct {
	Setting string
}

func (c UnconfiguredClient) InvokeModel(context.Context, LLMRequest) (*LLMResponse, error) {
	return nil, &NotConfiguredError{Setting: c.Setting}
}

func (c UnconfiguredClient) InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	return c.InvokeModel(ctx, request)
}
