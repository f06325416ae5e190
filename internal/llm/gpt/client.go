package gpt

import (
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModelID is used when no model is configured.
const DefaultModelID = "gpt-4o-mini"

type Client struct {
	Client       openai.Client
	ModelID      string
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func NewClient(apiKey string, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultModelID
	}

	// SDK-level retries are off; InvokeModelWithRetry is the only retry path.
	requestOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		Client:       openai.NewClient(requestOpts...),
		ModelID:      model,
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     12 * time.Second,
	}, nil
}
