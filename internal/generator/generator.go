package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/debate-agent/internal/config"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/llm"
	"github.com/rs/zerolog"
)

// threadLength selects the larger response budget.
const threadLength = "thread"

// Generator renders the prompt for a request, calls the model once and parses its output.
type Generator struct {
	templates map[Kind]promptTemplate
	model     config.ModelConfig
	llmClient llm.LLMClient
	logger    *zerolog.Logger
}

func NewGenerator(cfg *config.PromptsConfig, llmClient llm.LLMClient, logger *zerolog.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("prompts config is nil")
	}
	if llmClient == nil {
		return nil, fmt.Errorf("llm client is nil")
	}

	templates := make(map[Kind]promptTemplate, len(Kinds))
	for _, kind := range Kinds {
		src, ok := cfg.Templates[string(kind)]
		if !ok {
			return nil, fmt.Errorf("missing prompt template for %s", kind)
		}
		tmpl, err := compileTemplate(kind, src)
		if err != nil {
			return nil, err
		}
		templates[kind] = tmpl
	}

	return &Generator{
		templates: templates,
		model:     cfg.Model,
		llmClient: llmClient,
		logger:    logger,
	}, nil
}

// Render builds the prompt pair for kind without calling the model.
func (g *Generator) Render(kind Kind, payload Payload) (Prompt, error) {
	tmpl, ok := g.templates[kind]
	if !ok {
		return Prompt{}, ErrInvalidKind
	}
	return tmpl.render(newPromptData(kind, payload))
}

// MaxTokens returns the response budget for payload.
func (g *Generator) MaxTokens(payload Payload) int {
	if payload.Length == threadLength {
		return g.model.ThreadMaxTokens
	}
	return g.model.MaxTokens
}

func (g *Generator) Generate(ctx context.Context, kind Kind, payload Payload) (*Result, error) {
	now := time.Now()

	prompt, err := g.Render(kind, payload)
	if err != nil {
		return nil, err
	}

	request := llm.LLMRequest{
		SystemPrompt: prompt.System,
		Prompt:       prompt.User,
		MaxTokens:    g.MaxTokens(payload),
		Temperature:  g.model.Temperature,
	}

	var resp *llm.LLMResponse
	if g.model.Retry {
		resp, err = g.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = g.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("kind", string(kind)).
			Msg("LLM call failed")
		return nil, err
	}

	items, err := ParseItems(resp.Content)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("kind", string(kind)).
			Str("content", resp.Content).
			Msg("failed to parse LLM response")
		return nil, err
	}

	g.logger.Info().
		Str("kind", string(kind)).
		Int("requested", payload.Count(kind)).
		Int("items", len(items)).
		Str("stop_reason", resp.StopReason).
		Dur("duration", time.Since(now)).
		Msg("generation completed")

	return &Result{Kind: kind, Items: items}, nil
}
