package log

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type ctxMarkerLogger struct{}

var (
	ctxKeyLogger = &ctxMarkerLogger{}
)

type ctxLogger struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger
	fields []interface{}
}

// AddFields adds zap fields to the call-scoped logger. Fan-out goroutines
// share the context, so the field list is guarded.
func AddFields(ctx context.Context, fields ...interface{}) {
	l, ok := ctx.Value(ctxKeyLogger).(*ctxLogger)
	if !ok || l == nil {
		return
	}
	l.mu.Lock()
	l.fields = append(l.fields, fields...)
	l.mu.Unlock()
}

// ExtractLogger returns the call-scoped logger with the fields added so far,
// or the default logger when the context has none.
func ExtractLogger(ctx context.Context) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKeyLogger).(*ctxLogger)
	if !ok || l == nil {
		return Default()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logger.With(l.fields...)
}

// ToContext adds the zap.Logger to the context for extraction later.
// Returning the new context that has been created.
func ToContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	l := &ctxLogger{logger: logger}
	return context.WithValue(ctx, ctxKeyLogger, l)
}
