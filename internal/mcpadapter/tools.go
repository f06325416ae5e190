package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/generator"
)

const (
	RepliesToolName = "generate_replies"
	HooksToolName   = "generate_hooks"
)

type Generator interface {
	Generate(ctx context.Context, kind generator.Kind, payload generator.Payload) (*generator.Result, error)
}

// RepliesInput is the MCP tool input schema (matches HTTP payload field names).
type RepliesInput struct {
	TweetText         string `json:"tweet_text" jsonschema:"tweet to reply to"`
	Tone              string `json:"tone,omitempty" jsonschema:"tone of the replies, e.g. witty or professional"`
	Angle             string `json:"angle,omitempty" jsonschema:"angle to take, e.g. agree, disagree, add insight"`
	Length            string `json:"length,omitempty" jsonschema:"reply length; thread allows 2-4 tweets"`
	NumReplies        int    `json:"num_replies,omitempty" jsonschema:"number of replies (default: 3)"`
	ExtraInstructions string `json:"extra_instructions,omitempty" jsonschema:"additional instructions for the model"`
}

// HooksInput is the MCP tool input schema for thread hooks.
type HooksInput struct {
	Topic             string `json:"topic" jsonschema:"thread topic"`
	Tone              string `json:"tone,omitempty" jsonschema:"tone of the hooks"`
	NumHooks          int    `json:"num_hooks,omitempty" jsonschema:"number of hooks (default: 3)"`
	ExtraInstructions string `json:"extra_instructions,omitempty" jsonschema:"additional instructions for the model"`
}

type Item struct {
	Content string `json:"content"`
}

// GenerateOutput lists the generated items. Model values without a content
// field are dropped.
type GenerateOutput struct {
	Items []Item `json:"items"`
}

// RegisterTools adds the generation tools to server.
func RegisterTools(server *mcp.Server, gen Generator) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        RepliesToolName,
		Description: "Generate distinct reply options for a tweet",
	}, NewRepliesHandler(gen))

	mcp.AddTool(server, &mcp.Tool{
		Name:        HooksToolName,
		Description: "Generate opening hooks for a thread about a topic",
	}, NewHooksHandler(gen))
}

// NewRepliesHandler returns a tool handler that generates replies with gen.
// Pass the returned function to mcp.AddTool.
func NewRepliesHandler(gen Generator) func(context.Context, *mcp.CallToolRequest, RepliesInput) (*mcp.CallToolResult, GenerateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RepliesInput) (*mcp.CallToolResult, GenerateOutput, error) {
		payload := generator.Payload{
			TweetText:         input.TweetText,
			Tone:              input.Tone,
			Angle:             input.Angle,
			Length:            input.Length,
			NumReplies:        generator.Count(input.NumReplies),
			ExtraInstructions: input.ExtraInstructions,
		}
		return generate(ctx, gen, generator.KindReplies, payload)
	}
}

func NewHooksHandler(gen Generator) func(context.Context, *mcp.CallToolRequest, HooksInput) (*mcp.CallToolResult, GenerateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input HooksInput) (*mcp.CallToolResult, GenerateOutput, error) {
		payload := generator.Payload{
			Topic:             input.Topic,
			Tone:              input.Tone,
			NumHooks:          generator.Count(input.NumHooks),
			ExtraInstructions: input.ExtraInstructions,
		}
		return generate(ctx, gen, generator.KindHooks, payload)
	}
}

func generate(ctx context.Context, gen Generator, kind generator.Kind, payload generator.Payload) (*mcp.CallToolResult, GenerateOutput, error) {
	result, err := gen.Generate(ctx, kind, payload)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	output := GenerateOutput{Items: []Item{}}
	for _, content := range result.Contents() {
		output.Items = append(output.Items, Item{Content: content})
	}
	return nil, output, nil
}
