package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/jumptube/llm"
)

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Short "}, {"text": "summary."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 3, "totalTokenCount": 13},
			"modelVersion": "gemini-2.5-flash"
		}`))
	}))
	defer srv.Close()

	a, err := llm.NewWithDialect(Dialect{}, llm.Config{Dialect: Name, BaseURL: srv.URL, APIKey: "g-key"})
	if err != nil {
		t.Fatalf("NewWithDialect: %v", err)
	}
	resp, err := a.Execute(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: "user", Content: "summarize this"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Content != "Short summary." || resp.Usage.TotalTokens != 13 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" || gotKey != "g-key" {
		t.Fatalf("unexpected request: path=%q key=%q", gotPath, gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Role != "user" || gotBody.Contents[0].Parts[0].Text != "summarize this" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestBuildRequestRoles(t *testing.T) {
	body, err := Dialect{}.BuildRequest(llm.CompletionRequest{
		SystemPrompt: "be brief",
		Messages: []llm.Message{
			{Role: "user", Content: "q"},
			{Role: "assistant", Content: "a"},
		},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	req := body.(request)
	if req.Contents[1].Role != "model" {
		t.Fatalf("expected assistant to map to model, got %q", req.Contents[1].Role)
	}
	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatal("expected system instruction")
	}
	if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 100 {
		t.Fatal("expected generation config")
	}

	if _, err := (Dialect{}).BuildRequest(llm.CompletionRequest{}); err == nil {
		t.Fatal("expected error for empty messages")
	}
}

func TestParseResponseWithoutCandidates(t *testing.T) {
	if _, err := (Dialect{}).ParseResponse([]byte(`{"candidates":[]}`)); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}
