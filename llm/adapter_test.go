package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/httpclient"
	"github.com/kbukum/jumptube/logger"
)

// echoDialect posts the request as-is and reads {"text": ...} back.
type echoDialect struct{ base string }

func (d echoDialect) Name() string                 { return "echo" }
func (d echoDialect) DefaultBaseURL() string       { return d.base }
func (d echoDialect) ChatPath(model string) string { return "/chat/" + model }
func (d echoDialect) HealthPath() string           { return "/ping" }
func (d echoDialect) Auth(key string) *httpclient.AuthConfig {
	return httpclient.BearerAuth(key)
}
func (d echoDialect) BuildRequest(req CompletionRequest) (any, error) { return req, nil }
func (d echoDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &CompletionResponse{Content: out.Text}, nil
}

func TestAdapterExecute(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq CompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"text":"a summary"}`))
	}))
	defer srv.Close()

	a, err := NewWithDialect(echoDialect{base: srv.URL}, Config{Dialect: "echo", Model: "m1", APIKey: "secret", Temperature: 0.2})
	if err != nil {
		t.Fatalf("NewWithDialect: %v", err)
	}
	out, err := Complete(context.Background(), a, "be brief", "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "a summary" {
		t.Fatalf("unexpected content %q", out)
	}
	if gotPath != "/chat/m1" || gotAuth != "Bearer secret" {
		t.Fatalf("unexpected request: path=%q auth=%q", gotPath, gotAuth)
	}
	if gotReq.SystemPrompt != "be brief" || gotReq.Temperature != 0.2 || len(gotReq.Messages) != 1 {
		t.Fatalf("unexpected body: %+v", gotReq)
	}
}

func TestAdapterIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ping" {
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	a, _ := NewWithDialect(echoDialect{base: srv.URL}, Config{Dialect: "echo", Model: "m"})
	if !a.IsAvailable(context.Background()) {
		t.Fatal("expected adapter to be available")
	}
}

func TestNewRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	RegisterDialect(echoDialect{base: srv.URL})
	c, err := New(Config{Dialect: "echo", Model: "m"}, logger.Nop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := Complete(context.Background(), c, "", "hi")
	if err != nil || out != "ok" {
		t.Fatalf("expected ok after retry, got %q, %v", out, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestExecuteMapsUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	a, _ := NewWithDialect(echoDialect{base: srv.URL}, Config{Dialect: "echo", Model: "m"})
	_, err := a.Execute(context.Background(), CompletionRequest{Messages: []Message{{Role: "user", Content: "x"}}})
	if !apperrors.HasCode(err, apperrors.ErrCodeExternalService) {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
	}
}

func TestUnknownDialect(t *testing.T) {
	if _, err := New(Config{Dialect: "nope", Model: "m"}, logger.Nop(), nil); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Dialect != "gemini" || cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollama := Config{Dialect: "ollama"}
	ollama.ApplyDefaults()
	if err := ollama.Validate(); err == nil {
		t.Fatal("expected error when model is missing for a non-default dialect")
	}
}
