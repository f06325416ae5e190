package api

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// GenerateRequest documents the body of POST /api/generate.
type GenerateRequest struct {
	Kind    string          `json:"kind" description:"replies or hooks"`
	Payload GeneratePayload `json:"payload"`
}

type GeneratePayload struct {
	TweetText         string `json:"tweet_text,omitempty" description:"Tweet to reply to (replies)"`
	Topic             string `json:"topic,omitempty" description:"Thread topic (hooks)"`
	Tone              string `json:"tone,omitempty"`
	Angle             string `json:"angle,omitempty" description:"Reply angle (replies)"`
	Length            string `json:"length,omitempty" description:"Reply length; \"thread\" allows 2-4 tweets"`
	NumReplies        int    `json:"num_replies,omitempty" description:"Number of replies, default 3"`
	NumHooks          int    `json:"num_hooks,omitempty" description:"Number of hooks, default 3"`
	ExtraInstructions string `json:"extra_instructions,omitempty"`
}

type GeneratedItem struct {
	Content string `json:"content"`
}

// GenerateResponse documents the success body. Only the key matching the
// requested kind is present.
type GenerateResponse struct {
	Replies []GeneratedItem `json:"replies,omitempty"`
	Hooks   []GeneratedItem `json:"hooks,omitempty"`
}
