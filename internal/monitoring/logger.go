package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides enhanced structured logging with context
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new enhanced logger
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, userAgent string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"user_agent", userAgent,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// ScreeningLogger logs one completed screening batch. Candidate text and
// sensitive attributes are never logged, only aggregate counts.
func (l *Logger) ScreeningLogger(sessionID string, scored, excluded int, incomplete bool, duration time.Duration) {
	l.Info("Screening Completed",
		"session_id", sessionID,
		"candidates_scored", scored,
		"candidates_excluded", excluded,
		"incomplete", incomplete,
		"duration_ms", duration.Milliseconds(),
	)
}

// WhatIfLogger logs a what-if re-scoring pass.
func (l *Logger) WhatIfLogger(sessionID string, candidates int, duration time.Duration) {
	l.Info("WhatIf Completed",
		"session_id", sessionID,
		"candidates", candidates,
		"duration_ms", duration.Milliseconds(),
	)
}

// FairnessLogger logs the outcome of a fairness audit in aggregate.
func (l *Logger) FairnessLogger(sessionID, attribute string, groups, findings int) {
	l.Info("Fairness Audit Completed",
		"session_id", sessionID,
		"attribute", attribute,
		"groups", groups,
		"findings", findings,
	)
}

// APIErrorLogger logs API errors with context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

// PerformanceLogger logs performance metrics
func (l *Logger) PerformanceLogger(metric string, value float64, unit string) {
	l.Info("Performance Metric",
		"metric", metric,
		"value", value,
		"unit", unit,
		"timestamp", time.Now().Format(time.RFC3339),
	)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	l.Logger = slog.New(handler)
}

var startTime = time.Now()
