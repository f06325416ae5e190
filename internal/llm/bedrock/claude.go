package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm"
)

const anthropicVersion = "bedrock-2023-05-31"

// messagesRequest is the Anthropic messages body accepted by Bedrock.
type messagesRequest struct {
	AnthropicVersion string        `json:"anthropic_version"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	System           string        `json:"system,omitempty"`
	Messages         []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// text joins every text block of the response.
func (r messagesResponse) text() string {
	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	body, err := json.Marshal(messagesRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        request.MaxTokens,
		Temperature:      request.Temperature,
		System:           request.SystemPrompt,
		Messages:         []chatMessage{{Role: "user", Content: request.Prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("serialize claude request: %w", err)
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.ModelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke claude model %s: %w", c.ModelID, err)
	}

	var response messagesResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("decode bedrock response: %w", err)
	}

	return &llm.LLMResponse{
		Content:    response.text(),
		StopReason: response.StopReason,
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	var lastErr error

	for attempt := range c.MaxRetries {
		response, err := c.InvokeModel(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt, c.InitialDelay, c.MaxDelay)):
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", c.MaxRetries, lastErr)
}

var retryableCodes = map[string]bool{
	"ThrottlingException":         true,
	"TooManyRequestsException":    true,
	"ServiceUnavailableException": true,
	"InternalServerException":     true,
	"ModelNotReadyException":      true,
	"ModelTimeoutException":       true,
}

// isRetryableError reports throttling and transient service faults.
func isRetryableError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return retryableCodes[apiErr.ErrorCode()]
	}
	return false
}

// backoff doubles initialDelay per attempt, caps it at maxDelay and adds ±20% jitter.
func backoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	delay := math.Min(float64(initialDelay)*math.Pow(2, float64(attempt)), float64(maxDelay))
	jitter := delay * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(delay + jitter)
}
