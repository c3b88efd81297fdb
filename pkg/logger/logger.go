// Package logger builds the application's structured logger.
package logger

import (
	"io"
	"log/slog"

	"github.com/artem13815/blog/pkg/config"
)

// New returns a JSON logger in production and a text logger elsewhere.
// Debug records are only emitted in development.
func New(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == config.EnvDevelopment {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler
	if env == config.EnvProduction {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", "blog")
}
