// Package llm is a provider-neutral chat completion client. A Dialect maps
// the universal request and response types to one vendor's HTTP API; the
// Adapter sends them through httpclient.
package llm

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the universal completion input.
type CompletionRequest struct {
	// Model overrides the adapter default.
	Model        string    `json:"model,omitempty"`
	Messages     []Message `json:"messages"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Temperature  float64   `json:"temperature,omitempty"`
	// MaxTokens of 0 leaves the limit to the provider.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// CompletionResponse is the universal completion output.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
