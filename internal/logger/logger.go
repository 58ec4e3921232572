package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// ContextKey is the type for context keys used in logging
type ContextKey string

const (
	// LeadIDKey is the context key for lead_id
	LeadIDKey ContextKey = "lead_id"
	// CorrelationIDKey is the context key for correlation_id
	CorrelationIDKey ContextKey = "correlation_id"
)

var defaultLogger = logrus.New()

// Init initializes the global structured logger. Format is "json" or
// "text"; unknown levels fall back to info.
func Init(level, format string) {
	if format == "text" {
		defaultLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		defaultLogger.SetFormatter(&logrus.JSONFormatter{})
	}
	defaultLogger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	defaultLogger.SetLevel(parsed)
}

// WithContext creates a log entry carrying context values
// (lead_id, correlation_id)
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(defaultLogger)

	if leadID, ok := ctx.Value(LeadIDKey).(string); ok {
		entry = entry.WithField("lead_id", leadID)
	}

	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		entry = entry.WithField("correlation_id", correlationID)
	}

	return entry
}

// Info logs an info message with context
func Info(ctx context.Context, msg string, fields logrus.Fields) {
	WithContext(ctx).WithFields(fields).Info(msg)
}

// Warn logs a warning message with context
func Warn(ctx context.Context, msg string, fields logrus.Fields) {
	WithContext(ctx).WithFields(fields).Warn(msg)
}

// Debug logs a debug message with context
func Debug(ctx context.Context, msg string, fields logrus.Fields) {
	WithContext(ctx).WithFields(fields).Debug(msg)
}

// LogError logs an error with the underlying error attached
func LogError(ctx context.Context, msg string, err error, fields logrus.Fields) {
	WithContext(ctx).WithFields(fields).WithError(err).Error(msg)
}
