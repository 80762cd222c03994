package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/jumptube/catalog"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/jumptube"
	"github.com/kbukum/jumptube/summarize"
	"github.com/kbukum/jumptube/transcript"
)

const sample = "[5] intro to the talk\n[65] kubernetes operators explained\n[125] operators and kubernetes controllers"

type stubTranscripts struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscripts) Get(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubCatalog struct{ maxResults int }

func (s *stubCatalog) Search(_ context.Context, term string, maxResults int) ([]catalog.Video, error) {
	s.maxResults = maxResults
	return []catalog.Video{{ID: "abc", Title: term, Description: "d", URL: catalog.WatchURL("abc")}}, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(context.Context, string) summarize.Result {
	return summarize.Result{Summary: "a short summary"}
}

type fixture struct {
	router      *gin.Engine
	transcripts *stubTranscripts
	catalog     *stubCatalog
}

func newFixture(tr *stubTranscripts) *fixture {
	gin.SetMode(gin.TestMode)
	cat := &stubCatalog{}
	svc := jumptube.NewService(jumptube.SearchConfig{RequestTimeout: time.Second}, tr, cat, stubSummarizer{}, nil, nil)
	r := gin.New()
	New(svc, nil).Register(r)
	return &fixture{router: r, transcripts: tr, catalog: cat}
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestInVideoSearch(t *testing.T) {
	f := newFixture(&stubTranscripts{text: sample})
	rr := f.do(t, http.MethodPost, "/api/invideo-search", map[string]any{
		"video_url": "https://www.youtube.com/watch?v=abc",
		"prompt":    "Kubernetes operators",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["transcript_error"]; ok {
		t.Fatal("transcript_error should be omitted on success")
	}

	res := decode[inVideoResponse](t, rr)
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %+v", res.Matches)
	}
	want := matchResponse{
		Time:    "01:05",
		Seconds: "65",
		Text:    "kubernetes operators explained",
		URL:     "https://www.youtube.com/watch?v=abc&t=65s",
		Score:   2,
	}
	if res.Matches[0] != want {
		t.Fatalf("expected %+v, got %+v", want, res.Matches[0])
	}
}

func TestInVideoSearch_UnderscoreAlias(t *testing.T) {
	f := newFixture(&stubTranscripts{text: sample})
	rr := f.do(t, http.MethodPost, "/api/invideo_search", map[string]any{
		"video_url": "https://youtu.be/abc", "prompt": "operators", "top_k": 1,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if res := decode[inVideoResponse](t, rr); len(res.Matches) != 1 {
		t.Fatalf("expected top_k=1 to cap matches, got %d", len(res.Matches))
	}
}

func TestInVideoSearch_TranscriptFailure(t *testing.T) {
	f := newFixture(&stubTranscripts{err: apperrors.ToolNotFound("yt-dlp")})
	rr := f.do(t, http.MethodPost, "/api/invideo-search", map[string]any{
		"video_url": "https://youtu.be/abc", "prompt": "operators",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	res := decode[inVideoResponse](t, rr)
	if len(res.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(res.Matches))
	}
	if res.TranscriptError == nil || res.TranscriptError.Code != apperrors.ErrCodeToolNotFound {
		t.Fatalf("expected TOOL_NOT_FOUND transcript_error, got %+v", res.TranscriptError)
	}
}

func TestInVideoSearch_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
		code apperrors.ErrorCode
	}{
		{"blank url", map[string]any{"video_url": " ", "prompt": "x"}, apperrors.ErrCodeMissingField},
		{"missing prompt", map[string]any{"video_url": "https://youtu.be/abc"}, apperrors.ErrCodeMissingField},
		{"not json", "{", apperrors.ErrCodeInvalidInput},
		{"negative timeout", map[string]any{"video_url": "u", "prompt": "p", "timeout_seconds": -1}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &stubTranscripts{text: sample}
			f := newFixture(tr)
			rr := f.do(t, http.MethodPost, "/api/invideo-search", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			body := decode[apperrors.ErrorResponse](t, rr)
			if body.Error.Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code, body.Error.Code)
			}
			if tr.calls != 0 {
				t.Fatal("expected no pipeline work for an invalid request")
			}
		})
	}
}

func TestSearchVideos(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMax int
	}{
		{"default", "/api/search?query=golang", catalog.DefaultMaxResults},
		{"max_results", "/api/search?query=golang&max_results=7", 7},
		{"alias", "/api/search?query=golang&maxresults=3", 3},
		{"clamped", "/api/search?query=golang&max_results=999", catalog.MaxResultsLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&stubTranscripts{})
			rr := f.do(t, http.MethodGet, tt.path, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
			}
			res := decode[searchResponse](t, rr)
			if res.Query != "golang" || res.TotalResults != 1 || res.Results[0].URL != "https://youtu.be/abc" {
				t.Fatalf("unexpected response: %+v", res)
			}
			if f.catalog.maxResults != tt.wantMax {
				t.Fatalf("expected max %d, got %d", tt.wantMax, f.catalog.maxResults)
			}
		})
	}
}

func TestSearchVideos_Validation(t *testing.T) {
	f := newFixture(&stubTranscripts{})
	for _, path := range []string{"/api/search", "/api/search?query=%20%20", "/api/search?query=x&max_results=abc"} {
		rr := f.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rr.Code)
		}
	}
}

func TestSummarize(t *testing.T) {
	f := newFixture(&stubTranscripts{text: sample})
	rr := f.do(t, http.MethodPost, "/api/summarize", map[string]any{"video_url": "https://youtu.be/abc"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	res := decode[summarizeResponse](t, rr)
	if res.VideoURL != "https://youtu.be/abc" || res.Summary != "a short summary" {
		t.Fatalf("unexpected response: %+v", res)
	}

	rr = f.do(t, http.MethodPost, "/api/summarize", map[string]any{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing video_url, got %d", rr.Code)
	}
}

func TestTranscript_ETag(t *testing.T) {
	f := newFixture(&stubTranscripts{text: sample})
	rr := f.do(t, http.MethodGet, "/api/transcript?video_url=https://youtu.be/abc", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	res := decode[transcriptResponse](t, rr)
	if len(res.Segments) != 3 || res.Segments[1].Time != "01:05" {
		t.Fatalf("unexpected segments: %+v", res.Segments)
	}
	etag := rr.Header().Get("ETag")
	if etag != strconv.Quote(transcript.Digest(sample)) {
		t.Fatalf("expected digest ETag, got %q", etag)
	}

	rr = f.do(t, http.MethodGet, "/api/transcript?video_url=https://youtu.be/abc", nil, "If-None-Match", etag)
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
}

func TestTranscript_Failure(t *testing.T) {
	f := newFixture(&stubTranscripts{err: apperrors.Extraction("transcode", "no audio")})
	rr := f.do(t, http.MethodGet, "/api/transcript?video_url=https://youtu.be/abc", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}

	rr = f.do(t, http.MethodGet, "/api/transcript", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without video_url, got %d", rr.Code)
	}
}

func TestBindQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	type query struct {
		VideoURL string `form:"video_url" validate:"notblank"`
		Limit    int    `form:"limit"`
	}
	tests := []struct {
		name string
		path string
		ok   bool
		code apperrors.ErrorCode
	}{
		{"valid", "/?video_url=https://youtu.be/abc&limit=3", true, ""},
		{"malformed value", "/?video_url=https://youtu.be/abc&limit=abc", false, apperrors.ErrCodeInvalidInput},
		{"missing url", "/?limit=3", false, apperrors.ErrCodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			c.Request = httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)

			var q query
			if got := bindQuery(c, &q); got != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, got)
			}
			if tt.ok {
				return
			}
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if body := decode[apperrors.ErrorResponse](t, rr); body.Error.Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code, body.Error.Code)
			}
		})
	}
}
