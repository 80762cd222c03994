// Package ollama is the Ollama /api/chat dialect, for running the
// summarizer against a local model.
package ollama

import (
	"encoding/json"

	"github.com/kbukum/jumptube/httpclient"
	"github.com/kbukum/jumptube/llm"
)

// Name is the dialect name.
const Name = "ollama"

// Dialect implements llm.Dialect for Ollama.
type Dialect struct{}

func (Dialect) Name() string { return Name }

func (Dialect) DefaultBaseURL() string { return "http://localhost:11434" }

func (Dialect) ChatPath(string) string { return "/api/chat" }

func (Dialect) HealthPath() string { return "/api/tags" }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	if apiKey == "" {
		return nil
	}
	return httpclient.BearerAuth(apiKey)
}

type options struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         llm.Message `json:"message"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	messages := make([]llm.Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, llm.Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, req.Messages...)
	out := chatRequest{Model: req.Model, Messages: messages}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		out.Options = &options{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}
	return out, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
