package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithEvent adds event ID to logger context
func (l *Logger) WithEvent(eventID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("event_id", eventID)),
	}
}

// WithUserID adds user ID to logger context
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("user_id", userID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogEntrantJoined logs when an entrant joins a waiting list
func (l *Logger) LogEntrantJoined(ctx context.Context, eventID, userID string) {
	l.Logger.InfoContext(ctx,
		"Entrant Joined Waiting List",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)
}

// LogEntrantLeft logs when an entrant leaves a waiting list
func (l *Logger) LogEntrantLeft(ctx context.Context, eventID, userID string) {
	l.Logger.InfoContext(ctx,
		"Entrant Left Waiting List",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)
}

// LogLotteryRun logs the outcome of a selection round
func (l *Logger) LogLotteryRun(ctx context.Context, eventID string, invited, remainingWaiting int) {
	l.Logger.InfoContext(ctx,
		"Lottery Run Completed",
		slog.String("event_id", eventID),
		slog.Int("invited", invited),
		slog.Int("remaining_waiting", remainingWaiting),
	)
}

// LogReplacementDraw logs a single backfill draw after a decline or expiry
func (l *Logger) LogReplacementDraw(ctx context.Context, eventID, replacedUserID string, backfilled int) {
	l.Logger.InfoContext(ctx,
		"Replacement Draw",
		slog.String("event_id", eventID),
		slog.String("replaced_user_id", replacedUserID),
		slog.Int("backfilled", backfilled),
	)
}

// LogNotificationBatch logs the aggregate outcome of a cohort dispatch
func (l *Logger) LogNotificationBatch(ctx context.Context, eventID string, sent, skipped, failed int) {
	l.Logger.InfoContext(ctx,
		"Notification Batch Dispatched",
		slog.String("event_id", eventID),
		slog.Int("sent", sent),
		slog.Int("skipped", skipped),
		slog.Int("failed", failed),
	)
}

// LogOrganizerBanned logs a ban cascade
func (l *Logger) LogOrganizerBanned(ctx context.Context, organizerID string, eventsOnHold int) {
	l.Logger.WarnContext(ctx,
		"Organizer Banned",
		slog.String("organizer_id", organizerID),
		slog.Int("events_on_hold", eventsOnHold),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
