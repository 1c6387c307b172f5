package utils

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey int

const (
	ContextKeyLogger ContextKey = iota
)

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, found := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !found {
		// better a default logger than a nil pointer panic deep in the pipeline
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return logger
}
