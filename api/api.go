// Package api exposes the service over HTTP: video search, in-video
// search, summaries and raw transcripts.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/jumptube/catalog"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/jumptube"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/search"
	"github.com/kbukum/jumptube/server"
	"github.com/kbukum/jumptube/transcript"
	"github.com/kbukum/jumptube/validation"
)

// Handler serves the /api routes.
type Handler struct {
	svc *jumptube.Service
	log *logger.Logger
}

// New creates a Handler.
func New(svc *jumptube.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, log: log.WithComponent("api")}
}

// Register mounts the routes on r. The underscore in-video path is kept as
// an alias for older clients.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api")
	g.GET("/search", h.SearchVideos)
	g.POST("/invideo-search", h.InVideoSearch)
	g.POST("/invideo_search", h.InVideoSearch)
	g.POST("/summarize", h.Summarize)
	g.GET("/transcript", h.Transcript)
}

type searchQuery struct {
	Query      string `form:"query" validate:"notblank,max=500"`
	MaxResults *int   `form:"max_results"`
	// MaxResultsAlias is the spelling older clients send.
	MaxResultsAlias *int `form:"maxresults"`
}

type searchResponse struct {
	Query        string          `json:"query"`
	Results      []catalog.Video `json:"results"`
	TotalResults int             `json:"total_results"`
}

// SearchVideos handles GET /api/search?query=&max_results=.
func (h *Handler) SearchVideos(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("max_results", "must be an integer"))
		return
	}
	if err := validation.Validate(q); err != nil {
		server.RespondWithError(c, err)
		return
	}
	maxResults := 0
	switch {
	case q.MaxResults != nil:
		maxResults = *q.MaxResults
	case q.MaxResultsAlias != nil:
		maxResults = *q.MaxResultsAlias
	}

	videos, err := h.svc.SearchVideos(c.Request.Context(), q.Query, maxResults)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if videos == nil {
		videos = []catalog.Video{}
	}
	server.RespondOK(c, searchResponse{Query: q.Query, Results: videos, TotalResults: len(videos)})
}

type inVideoRequest struct {
	VideoURL string `json:"video_url" validate:"notblank,max=2048"`
	Prompt   string `json:"prompt" validate:"notblank,max=1000"`
	// TopK absent uses the default; zero or negative returns every match.
	TopK           *int `json:"top_k"`
	TimeoutSeconds int  `json:"timeout_seconds" validate:"gte=0,lte=3600"`
}

type matchResponse struct {
	Time    string `json:"time"`
	Seconds string `json:"seconds"`
	Text    string `json:"text"`
	URL     string `json:"url"`
	Score   int    `json:"score"`
}

type inVideoResponse struct {
	VideoURL        string               `json:"video_url"`
	Prompt          string               `json:"prompt"`
	Matches         []matchResponse      `json:"matches"`
	TranscriptError *apperrors.ErrorBody `json:"transcript_error,omitempty"`
}

// InVideoSearch handles POST /api/invideo-search. A transcript that could
// not be produced is a 200 with no matches and a transcript_error.
func (h *Handler) InVideoSearch(c *gin.Context) {
	var req inVideoRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.SearchInVideo(c.Request.Context(), jumptube.InVideoQuery{
		VideoURL: req.VideoURL,
		Prompt:   req.Prompt,
		TopK:     req.TopK,
		Timeout:  time.Duration(req.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	out := inVideoResponse{
		VideoURL:        res.VideoURL,
		Prompt:          res.Prompt,
		Matches:         toMatches(res.Matches),
		TranscriptError: errorBody(res.TranscriptErr),
	}
	server.RespondOK(c, out)
}

type summarizeRequest struct {
	VideoURL string `json:"video_url" validate:"notblank,max=2048"`
}

type summarizeResponse struct {
	VideoURL string `json:"video_url"`
	Summary  string `json:"summary"`
}

// Summarize handles POST /api/summarize. Failures come back as the
// sentinel summary strings.
func (h *Handler) Summarize(c *gin.Context) {
	var req summarizeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Summarize(c.Request.Context(), req.VideoURL)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, summarizeResponse{VideoURL: req.VideoURL, Summary: res.Summary})
}

type transcriptQuery struct {
	VideoURL string `form:"video_url" validate:"notblank,max=2048"`
}

type segmentResponse struct {
	Seconds int    `json:"seconds"`
	Time    string `json:"time"`
	Text    string `json:"text"`
}

type transcriptResponse struct {
	VideoURL string            `json:"video_url"`
	Digest   string            `json:"digest"`
	Segments []segmentResponse `json:"segments"`
}

// Transcript handles GET /api/transcript?video_url=. The ETag is the
// transcript digest, so a client holding it gets 304.
func (h *Handler) Transcript(c *gin.Context) {
	var q transcriptQuery
	if !bindQuery(c, &q) {
		return
	}
	view, err := h.svc.Transcript(c.Request.Context(), q.VideoURL)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	etag := strconv.Quote(view.Digest)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	server.RespondOK(c, transcriptResponse{VideoURL: view.VideoURL, Digest: view.Digest, Segments: toSegments(view.Segments)})
}

// bindJSON decodes and validates the body, writing the error response
// itself when it fails.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		server.RespondWithError(c, apperrors.Validation("request body must be a JSON object").WithCause(err))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		server.RespondWithError(c, apperrors.Validation("malformed query string").WithCause(err))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}

func toMatches(matches []search.Match) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchResponse{
			Time:    m.Time,
			Seconds: strconv.Itoa(m.Seconds),
			Text:    m.Text,
			URL:     m.URL,
			Score:   m.Score,
		})
	}
	return out
}

func toSegments(segments []transcript.Segment) []segmentResponse {
	out := make([]segmentResponse, 0, len(segments))
	for _, s := range segments {
		out = append(out, segmentResponse{Seconds: s.Seconds, Time: search.FormatTime(s.Seconds), Text: s.Text})
	}
	return out
}

func errorBody(err error) *apperrors.ErrorBody {
	if err == nil {
		return nil
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Transcription("", err.Error())
	}
	body := appErr.ToResponse().Error
	return &body
}
