package generator

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/povarna/generative-ai-agents/debate-agent/internal/config"
)

// PromptData is the value every prompt template is executed against.
type PromptData struct {
	Count             int
	TweetText         string
	Topic             string
	Tone              string
	Angle             string
	Length            string
	ExtraInstructions string
}

// Prompt is a rendered system/user pair.
type Prompt struct {
	System string
	User   string
}

type promptTemplate struct {
	system *template.Template
	user   *template.Template
}

func compileTemplate(kind Kind, src config.PromptTemplate) (promptTemplate, error) {
	system, err := template.New(string(kind) + "-system").Option("missingkey=error").Parse(src.System)
	if err != nil {
		return promptTemplate{}, fmt.Errorf("failed to parse system prompt for %s: %w", kind, err)
	}
	user, err := template.New(string(kind) + "-user").Option("missingkey=error").Parse(src.User)
	if err != nil {
		return promptTemplate{}, fmt.Errorf("failed to parse user prompt for %s: %w", kind, err)
	}
	return promptTemplate{system: system, user: user}, nil
}

func (t promptTemplate) render(data PromptData) (Prompt, error) {
	var system, user bytes.Buffer
	if err := t.system.Execute(&system, data); err != nil {
		return Prompt{}, fmt.Errorf("template execution failed: %w", err)
	}
	if err := t.user.Execute(&user, data); err != nil {
		return Prompt{}, fmt.Errorf("template execution failed: %w", err)
	}
	return Prompt{System: system.String(), User: user.String()}, nil
}

func newPromptData(kind Kind, payload Payload) PromptData {
	return PromptData{
		Count:             payload.Count(kind),
		TweetText:         payload.TweetText,
		Topic:             payload.Topic,
		Tone:              payload.Tone,
		Angle:             payload.Angle,
		Length:            payload.Length,
		ExtraInstructions: payload.ExtraInstructions,
	}
}
