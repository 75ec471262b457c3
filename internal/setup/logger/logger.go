package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stderr. Stdout stays free for the MCP stdio transport.
func New(level string, service string) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, service)
}

func NewWithWriter(w io.Writer, level string, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	return ctx.Logger()
}
