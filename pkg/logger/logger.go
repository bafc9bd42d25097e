package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with booking-domain helpers
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

	// Text output is easier to read while developing, JSON is for log shipping
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

// Discard returns a logger that drops every record. Used by tests.
func Discard() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

// WithSession adds the wizard session ID to logger context
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_id", sessionID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
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
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Wizard logging methods

// LogWizardOpened logs when a booking wizard session is opened
func (l *Logger) LogWizardOpened(ctx context.Context, sessionID, mode, theater string) {
	l.Logger.InfoContext(ctx,
		"Wizard Opened",
		slog.String("session_id", sessionID),
		slog.String("mode", mode),
		slog.String("theater", theater),
	)
}

// LogWizardClosed logs when a wizard session is closed
func (l *Logger) LogWizardClosed(ctx context.Context, sessionID string, changed, notified bool) {
	l.Logger.InfoContext(ctx,
		"Wizard Closed",
		slog.String("session_id", sessionID),
		slog.Bool("changed", changed),
		slog.Bool("incomplete_notified", notified),
	)
}

// LogPaymentTransition logs a payment orchestrator state change
func (l *Logger) LogPaymentTransition(ctx context.Context, sessionID, from, to string) {
	l.Logger.DebugContext(ctx,
		"Payment State Transition",
		slog.String("session_id", sessionID),
		slog.String("from", from),
		slog.String("to", to),
	)
}

// LogPaymentFailed logs a failed gateway or submission step
func (l *Logger) LogPaymentFailed(ctx context.Context, sessionID, stage string, err error) {
	l.Logger.WarnContext(ctx,
		"Payment Failed",
		slog.String("session_id", sessionID),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

// LogCouponRejected logs a coupon that did not validate
func (l *Logger) LogCouponRejected(ctx context.Context, code, reason string) {
	l.Logger.InfoContext(ctx,
		"Coupon Rejected",
		slog.String("code", code),
		slog.String("reason", reason),
	)
}

// LogCatalogFallback logs a catalog fetch failure that was served from fallback data
func (l *Logger) LogCatalogFallback(ctx context.Context, source string, err error) {
	l.Logger.WarnContext(ctx,
		"Catalog Fetch Failed, Using Fallback",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
}

// Booking logging methods

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, theater, date, slot string) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("theater", theater),
		slog.String("date", date),
		slog.String("time_slot", slot),
	)
}

// LogBookingUpdated logs when an existing booking is resubmitted from edit mode
func (l *Logger) LogBookingUpdated(ctx context.Context, bookingID string) {
	l.Logger.InfoContext(ctx,
		"Booking Updated",
		slog.String("booking_id", bookingID),
	)
}

// LogNotificationPublished logs a published notification
func (l *Logger) LogNotificationPublished(ctx context.Context, notificationType, key string, partition int32, offset int64) {
	l.Logger.InfoContext(ctx,
		"Notification Published",
		slog.String("type", notificationType),
		slog.String("key", key),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
}

// Security logging methods

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
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
