package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"text/template"

	"go.yaml.in/yaml/v3"
)

const (
	DefaultTemperature     = 0.9
	DefaultMaxTokens       = 800
	DefaultThreadMaxTokens = 1200
)

//go:embed prompts.yaml
var defaultPrompts []byte

// LoadPromptsConfig reads the file named by PROMPTS_CONFIG_PATH, or the
// embedded defaults when the variable is unset.
func LoadPromptsConfig() (*PromptsConfig, error) {
	path := os.Getenv("PROMPTS_CONFIG_PATH")
	if path == "" {
		return ParsePromptsConfig(defaultPrompts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParsePromptsConfig(data)
}

// DefaultPromptsConfig returns the embedded configuration.
func DefaultPromptsConfig() (*PromptsConfig, error) {
	return ParsePromptsConfig(defaultPrompts)
}

func ParsePromptsConfig(data []byte) (*PromptsConfig, error) {
	var cfg PromptsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *PromptsConfig) {
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = DefaultTemperature
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = DefaultMaxTokens
	}
	if cfg.Model.ThreadMaxTokens == 0 {
		cfg.Model.ThreadMaxTokens = DefaultThreadMaxTokens
	}
}

func (c *PromptsConfig) Validate() error {
	if len(c.Templates) == 0 {
		return fmt.Errorf("no prompt templates configured")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Model.Temperature)
	}
	if c.Model.MaxTokens < 0 || c.Model.ThreadMaxTokens < 0 {
		return fmt.Errorf("max tokens must be positive")
	}

	kinds := make([]string, 0, len(c.Templates))
	for kind := range c.Templates {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		tmpl := c.Templates[kind]
		if tmpl.System == "" || tmpl.User == "" {
			return fmt.Errorf("template %s: system and user prompts are required", kind)
		}
		if _, err := template.New(kind).Parse(tmpl.System); err != nil {
			return fmt.Errorf("template %s: invalid system prompt: %w", kind, err)
		}
		if _, err := template.New(kind).Parse(tmpl.User); err != nil {
			return fmt.Errorf("template %s: invalid user prompt: %w", kind, err)
		}
	}

	return nil
}
