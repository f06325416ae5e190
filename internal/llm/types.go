package llm

// LLMRequest is a single-turn chat request. SystemPrompt may be empty.
type LLMRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}
