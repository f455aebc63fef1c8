package log

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Field = zap.Field

// Logger is the structured logger handed to every layer of the API server.
// The *Context variants add the request, user and client fields stored on ctx.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	// Printf lets the logger back gorm's SQL logger.
	Printf(format string, args ...interface{})
	Sync() error
}

func String(key, value string) Field                 { return zap.String(key, value) }
func Int(key string, value int) Field                { return zap.Int(key, value) }
func Duration(key string, value time.Duration) Field { return zap.Duration(key, value) }
func Any(key string, value interface{}) Field        { return zap.Any(key, value) }
func Error(err error) Field                          { return zap.Error(err) }

func UserID(id string) Field    { return zap.String("user_id", id) }
func RequestID(id string) Field { return zap.String("request_id", id) }

type contextKey int

const (
	requestIDKey contextKey = iota
	userIDKey
	clientIPKey
)

// WithRequestID stores the request id for *Context log calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithUserID stores the authenticated user id for *Context log calls.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// WithClientIP stores the caller address for *Context log calls.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func contextFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	var fields []Field
	if id, _ := ctx.Value(requestIDKey).(string); id != "" {
		fields = append(fields, RequestID(id))
	}
	if id, _ := ctx.Value(userIDKey).(string); id != "" {
		fields = append(fields, UserID(id))
	}
	if ip, _ := ctx.Value(clientIPKey).(string); ip != "" {
		fields = append(fields, String("client_ip", ip))
	}
	return fields
}
