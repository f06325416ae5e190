package config

// PromptsConfig holds the prompt templates and model parameters for every generation kind.
type PromptsConfig struct {
	Model     ModelConfig               `yaml:"model"`
	Templates map[string]PromptTemplate `yaml:"templates"`
}

// ModelConfig contains sampling parameters shared by all kinds.
// A zero value means "use the default".
type ModelConfig struct {
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
	ThreadMaxTokens int     `yaml:"thread_max_tokens"`
	Retry           bool    `yaml:"retry"`
}

// PromptTemplate is a pair of text/template sources rendered per request.
type PromptTemplate struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}
