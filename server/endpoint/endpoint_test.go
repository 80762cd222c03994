package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/jumptube/component"
)

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return rr, body
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		statuses []component.HealthStatus
		code     int
		want     string
	}{
		{"no components", nil, http.StatusOK, "healthy"},
		{"all healthy", []component.HealthStatus{component.StatusHealthy, component.StatusHealthy}, http.StatusOK, "healthy"},
		{"degraded engine", []component.HealthStatus{component.StatusHealthy, component.StatusDegraded}, http.StatusOK, "degraded"},
		{"missing tool", []component.HealthStatus{component.StatusUnhealthy, component.StatusDegraded}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := func(context.Context) []component.Health {
				out := make([]component.Health, 0, len(tt.statuses))
				for _, s := range tt.statuses {
					out = append(out, component.Health{Name: "c", Status: s})
				}
				return out
			}
			rr, body := serve(t, Health("jumptube", checker))
			if rr.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rr.Code)
			}
			if body["status"] != tt.want {
				t.Fatalf("expected status %q, got %v", tt.want, body["status"])
			}
			if body["service"] != "jumptube" {
				t.Fatalf("expected service name, got %v", body["service"])
			}
		})
	}
}

func TestInfo(t *testing.T) {
	rr, body := serve(t, Info("jumptube"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if _, ok := body["version"].(map[string]any); !ok {
		t.Fatalf("expected version object, got %v", body["version"])
	}
}

func TestMetrics(t *testing.T) {
	stats := func(context.Context) map[string]any { return map[string]any{"cached_transcripts": 3} }
	rr, body := serve(t, Metrics(stats))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	svc, ok := body["service"].(map[string]any)
	if !ok || svc["cached_transcripts"] != float64(3) {
		t.Fatalf("expected service stats, got %v", body["service"])
	}
	if _, ok := body["goroutines"]; !ok {
		t.Fatal("expected goroutines field")
	}
}
