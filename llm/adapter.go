package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/jumptube/httpclient"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/provider"
	"github.com/kbukum/jumptube/resilience"
)

// Completer is a completion provider, usually an Adapter behind middleware.
type Completer = provider.RequestResponse[CompletionRequest, CompletionResponse]

// Adapter sends completions for one dialect.
type Adapter struct {
	client      *httpclient.Client
	dialect     Dialect
	model       string
	temperature float64
	maxTokens   int
}

// NewWithDialect creates an Adapter for an explicit dialect.
func NewWithDialect(d Dialect, cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = d.DefaultBaseURL()
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL: baseURL,
		Timeout: cfg.Timeout,
		Auth:    d.Auth(cfg.APIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create http client: %w", err)
	}
	return &Adapter{
		client:      client,
		dialect:     d,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// New looks up cfg.Dialect and wraps the adapter with tracing, metrics,
// logging, retry and a circuit breaker.
func New(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Completer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	adapter, err := NewWithDialect(d, cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	retry.RetryIf = provider.RetryIfRetryable
	cb := resilience.DefaultCircuitBreakerConfig("llm-" + d.Name())

	return provider.Chain(
		provider.WithTracing[CompletionRequest, CompletionResponse]("llm"),
		provider.WithMetrics[CompletionRequest, CompletionResponse](metrics, "complete"),
		provider.WithLogging[CompletionRequest, CompletionResponse](log.WithComponent("llm")),
		provider.WithResilience[CompletionRequest, CompletionResponse](provider.ResilienceConfig{
			Retry:          &retry,
			CircuitBreaker: &cb,
		}),
	)(adapter), nil
}

func (a *Adapter) Name() string { return a.dialect.Name() }

// IsAvailable probes the dialect's health path when it has one.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	hp := a.dialect.HealthPath()
	if hp == "" {
		return true
	}
	resp, err := a.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: hp})
	return err == nil && resp.IsSuccess()
}

// Execute sends one completion.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}
	raw, err := httpclient.PostJSON[json.RawMessage](ctx, a.client, a.dialect.ChatPath(req.Model), body)
	if err != nil {
		return CompletionResponse{}, httpclient.ToAppError("language model", err)
	}
	result, err := a.dialect.ParseResponse(raw)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	if result.Model == "" {
		result.Model = req.Model
	}
	return *result, nil
}
