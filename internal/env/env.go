// Package env provides a way to access environmental dependencies
package env

import (
	"context"
	"log/slog"

	"compose2containerapps/internal/database"
	"compose2containerapps/internal/logging"
)

type ctxKey struct{}

// Holds the dependencies for the environment
type Env struct {
	Logger *slog.Logger
	Store  database.Store
}

// Constructs an Env object with the provided parameters. store may be nil
// when history is disabled.
func NewEnvironment(logger *slog.Logger, store database.Store) *Env {
	if logger == nil {
		logger = slog.New(logging.NullLogger())
	}

	return &Env{
		Logger: logger,
		Store:  store,
	}
}

// Constructs a null instance
func Null() *Env {
	return &Env{
		Logger: slog.New(logging.NullLogger()),
	}
}

func (e *Env) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

func FromContext(ctx context.Context) *Env {
	if e, ok := ctx.Value(ctxKey{}).(*Env); ok && e != nil {
		return e
	}
	return Null()
}
