// Package logger configures the process-wide zerolog logger and provides
// trace-aware helpers for pulling a request-scoped logger out of a context.
package logger

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Init configures zerolog with JSON output to stdout and, optionally, a log
// file opened in append mode. If the file can't be opened logging falls back
// to stdout only and the error is reported on stderr.
func Init(logPath string, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = io.MultiWriter(os.Stdout, f)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "failed to open log file %q: %v\n", logPath, err)
		}
	}
	log.Logger = log.Output(w).With().Timestamp().Logger()

	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}

// FromContext returns a zerolog.Logger enriched with trace_id/span_id from
// ctx's active OpenTelemetry span, if any. Falls back to the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	l := log.Logger
	if ctx == nil {
		return &l
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		l = l.With().Str("trace_id", sc.TraceID().String()).Logger()
		if sc.HasSpanID() {
			l = l.With().Str("span_id", sc.SpanID().String()).Logger()
		}
	}
	return &l
}
