package fygen

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Logger is an optional logging interface for generator operations,
// allowing integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// NewZerologLogger adapts a zerolog.Logger to the Logger interface.
//
// Example:
//
//	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	gen := fygen.New(port, fygen.WithLogger(fygen.NewZerologLogger(zl)))
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologAdapter{log: l}
}

type zerologAdapter struct {
	log zerolog.Logger
}

func (z *zerologAdapter) Debug(msg string, kv ...interface{}) {
	emit(z.log.Debug(), msg, kv)
}

func (z *zerologAdapter) Info(msg string, kv ...interface{}) {
	emit(z.log.Info(), msg, kv)
}

func (z *zerologAdapter) Error(msg string, kv ...interface{}) {
	emit(z.log.Error(), msg, kv)
}

func emit(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.Interface(fmt.Sprint(kv[i]), kv[i+1])
	}
	e.Msg(msg)
}

func (g *Generator) logDebug(msg string, kv ...interface{}) {
	if g.cfg.Logger != nil {
		g.cfg.Logger.Debug(msg, kv...)
	}
}

func (g *Generator) logInfo(msg string, kv ...interface{}) {
	if g.cfg.Logger != nil {
		g.cfg.Logger.Info(msg, kv...)
	}
}

func (g *Generator) logError(msg string, kv ...interface{}) {
	if g.cfg.Logger != nil {
		g.cfg.Logger.Error(msg, kv...)
	}
}
