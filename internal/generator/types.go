package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultCount is used when the caller does not ask for a specific number of items.
const DefaultCount = 3

var (
	ErrMissingInput       = errors.New("missing kind or payload")
	ErrInvalidKind        = errors.New("invalid kind")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrInvalidModelOutput = errors.New("invalid JSON response")
)

type Kind string

const (
	KindReplies Kind = "replies"
	KindHooks   Kind = "hooks"
)

// Kinds lists every supported generation kind.
var Kinds = []Kind{KindReplies, KindHooks}

func (k Kind) Valid() bool {
	return k == KindReplies || k == KindHooks
}

// Request is the wire shape accepted by the HTTP and batch surfaces.
type Request struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Payload carries the caller-supplied generation parameters.
type Payload struct {
	TweetText         string `json:"tweet_text,omitempty"`
	Topic             string `json:"topic,omitempty"`
	Tone              string `json:"tone,omitempty"`
	Angle             string `json:"angle,omitempty"`
	Length            string `json:"length,omitempty"`
	NumReplies        Count  `json:"num_replies,omitempty"`
	NumHooks          Count  `json:"num_hooks,omitempty"`
	ExtraInstructions string `json:"extra_instructions,omitempty"`
}

// Count accepts a JSON number or a numeric string.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		*c = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("count must be a number, got %s", data)
	}
	*c = Count(f)
	return nil
}

// Decode validates the request and returns its kind and payload.
func (r Request) Decode() (Kind, Payload, error) {
	payload := bytes.TrimSpace(r.Payload)
	if r.Kind == "" || len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return "", Payload{}, ErrMissingInput
	}
	if !r.Kind.Valid() {
		return "", Payload{}, ErrInvalidKind
	}

	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return r.Kind, p, nil
}

// Count returns the number of items requested for kind.
func (p Payload) Count(kind Kind) int {
	n := p.NumReplies
	if kind == KindHooks {
		n = p.NumHooks
	}
	if n <= 0 {
		return DefaultCount
	}
	return int(n)
}

// Result is an ordered list of generated items. Items are JSON values:
// {"content": "..."} objects, or whatever non-string value the model returned.
type Result struct {
	Kind  Kind
	Items []json.RawMessage
}

// MarshalJSON renders the result keyed by its kind, e.g. {"replies": [...]}.
func (r Result) MarshalJSON() ([]byte, error) {
	items := r.Items
	if items == nil {
		items = []json.RawMessage{}
	}
	return json.Marshal(map[string][]json.RawMessage{string(r.Kind): items})
}

// Contents returns the content text of every item that has one.
func (r Result) Contents() []string {
	contents := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if content, ok := ItemContent(item); ok {
			contents = append(contents, content)
		}
	}
	return contents
}

// ItemContent extracts the content field of a generated item.
func ItemContent(item json.RawMessage) (string, bool) {
	var entry struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(item, &entry); err != nil || entry.Content == nil {
		return "", false
	}
	return *entry.Content, true
}
