package llm

import "context"

// Complete sends an optional system prompt and one user message and
// returns the generated text.
func Complete(ctx context.Context, p Completer, system, user string) (string, error) {
	resp, err := p.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
