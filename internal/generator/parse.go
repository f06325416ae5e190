package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseItems decodes model output into a list of items.
//
// The output is decoded as JSON first. If that fails, the text between the
// first '[' and the last ']' is decoded instead. A value that is not an array
// yields an empty list. String elements are wrapped as {"content": s}; other
// elements are kept verbatim.
func ParseItems(raw string) ([]json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "[]"
	}

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		candidate, ok := bracketedArray(raw)
		if !ok {
			return nil, ErrInvalidModelOutput
		}
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
		}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(parsed, &elements); err != nil {
		return []json.RawMessage{}, nil
	}

	items := make([]json.RawMessage, 0, len(elements))
	for _, element := range elements {
		item, err := normalizeItem(element)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func bracketedArray(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func normalizeItem(element json.RawMessage) (json.RawMessage, error) {
	element = bytes.TrimSpace(element)
	if len(element) == 0 || element[0] != '"' {
		return element, nil
	}

	var text string
	if err := json.Unmarshal(element, &text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}

	wrapped, err := json.Marshal(struct {
		Content string `json:"content"`
	}{Content: text})
	if err != nil {
		return nil, fmt.Errorf("wrap item: %w", err)
	}
	return wrapped, nil
}
