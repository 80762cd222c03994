package logger

import (
	"time"
)

// Field keys shared by every component.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	FieldVideoURL = "video_url"
	FieldPrompt   = "prompt"
	FieldEngine   = "engine"
	FieldTool     = "tool"
	FieldCacheHit = "cache_hit"
	FieldTerms    = "terms"
	FieldMatches  = "matches"
	FieldSamples  = "samples"
	FieldSegments = "segments"
	FieldDigest   = "digest"
)

// Fields builds a field map from alternating key-value pairs.
//
//	logger.Info("transcribed", logger.Fields("engine", "whisper", "segments", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
