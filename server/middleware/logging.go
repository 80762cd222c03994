package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/jumptube/logger"
)

// quietPaths are polled by probes and not logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/info":    true,
	"/metrics": true,
}

// slowRequest marks requests worth a field in the log line. Cold in-video
// searches routinely exceed it while a video transcribes.
const slowRequest = 2 * time.Second

// RequestLogger logs each request with method, path, status and duration.
// 5xx logs at Error, 4xx at Warn and everything else at Debug.
func RequestLogger(log *logger.Logger) Middleware {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, sw.status,
				logger.FieldDuration, elapsed.Milliseconds(),
				"bytes", sw.written,
			)
			if elapsed > slowRequest {
				fields["slow"] = true
			}

			l := log.WithContext(r.Context())
			switch {
			case sw.status >= 500:
				l.Error("request completed", fields)
			case sw.status >= 400:
				l.Warn("request completed", fields)
			default:
				l.Debug("request completed", fields)
			}
		})
	}
}
