// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ContactKey is the context key for the chat contact being handled
	ContactKey contextKey = "contact"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and contact from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("request_id", requestID)),
		}
	}

	if contact, ok := ctx.Value(ContactKey).(string); ok && contact != "" {
		newLogger = newLogger.WithContact(contact)
	}

	return newLogger
}

// WithContact returns a logger bound to a chat contact.
func (l *Logger) WithContact(contact string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("contact", contact)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// InboundMessage logs a message received from the chat gateway.
func (l *Logger) InboundMessage(sender string, length int, group bool) {
	l.Info("inbound_message",
		slog.String("sender", sender),
		slog.Int("length", length),
		slog.Bool("group", group),
	)
}

// SendFailure logs a failed outbound send. Send failures are reported but
// never abort the handler, so they only ever show up here.
func (l *Logger) SendFailure(recipient string, err error) {
	l.Error("send_failure",
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}

// OrderTransition logs an order lifecycle transition.
func (l *Logger) OrderTransition(orderID, from, to string) {
	l.Info("order_transition",
		slog.String("order_id", orderID),
		slog.String("from", from),
		slog.String("to", to),
	)
}

// DirectoryLoaded logs a startup directory load.
func (l *Logger) DirectoryLoaded(name string, entries int, source string) {
	l.Info("directory_loaded",
		slog.String("directory", name),
		slog.Int("entries", entries),
		slog.String("source", source),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
