package common

import (
	"fmt"

	"go-rbac-api/pkg/log"
)

// Logger is the key/value logging surface used by packages that should not
// depend on zap field types.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// LoggerAdapter adapts pkg/log.Logger to common.Logger interface
type LoggerAdapter struct {
	logger log.Logger
}

func NewLoggerAdapter(logger log.Logger) Logger {
	return &LoggerAdapter{logger: logger}
}

func (a *LoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, toFields(keysAndValues)...)
}

// toFields pairs up keys and values; a trailing key without a value is dropped.
func toFields(keysAndValues []interface{}) []log.Field {
	fields := make([]log.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		fields = append(fields, log.Any(key, keysAndValues[i+1]))
	}
	return fields
}
