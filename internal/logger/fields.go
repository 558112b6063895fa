package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldResumeID = "resume_id"
	FieldJobID    = "job_id"
	FieldMatchID  = "match_id"
	// FieldModel is the key for the AI model used to write advice.
	FieldModel = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// MatchFields identifies the records a match was computed from. Unknown ids are left out.
func MatchFields(resumeID, jobID, matchID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldResumeID, Value: resumeID},
		StringField{Key: FieldJobID, Value: jobID},
		StringField{Key: FieldMatchID, Value: matchID},
	)
}

// WithMatch attaches MatchFields to the logger.
func WithMatch(logger *zap.Logger, resumeID, jobID, matchID string) *zap.Logger {
	return WithFields(logger, MatchFields(resumeID, jobID, matchID)...)
}
