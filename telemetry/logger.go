// Package telemetry provides structured logging for federate components,
// mirroring log entries to a NATS subject when a connection is supplied so
// remote observers (dashboards, other federates) can follow scan activity
// without polling metrics.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/beroset/HELICS/value"
)

// Level is the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is a structured log record suitable for JSON transport over NATS.
type Entry struct {
	Timestamp string  `json:"timestamp"`
	Level     Level   `json:"level"`
	Federate  string  `json:"federate"`
	Input     string  `json:"input,omitempty"`
	SimTime   float64 `json:"sim_time,omitempty"`
	Message   string  `json:"message"`
	Stack     string  `json:"stack,omitempty"`
}

// Logger wraps a *slog.Logger for local output and optionally mirrors each
// entry to a NATS subject for remote consumption. A nil *nats.Conn disables
// the mirror; local logging still happens.
type Logger struct {
	federate string
	nc       *nats.Conn
	logger   *slog.Logger
	enabled  bool
}

// New creates a Logger scoped to a federate name. logger may be nil, in
// which case slog.Default() is used.
func New(federateName string, nc *nats.Conn, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		federate: federateName,
		nc:       nc,
		logger:   logger,
		enabled:  nc != nil,
	}
}

func (l *Logger) Debug(input, msg string) { l.log(context.Background(), LevelDebug, input, 0, msg, nil) }
func (l *Logger) Info(input, msg string)  { l.log(context.Background(), LevelInfo, input, 0, msg, nil) }
func (l *Logger) Warn(input, msg string)  { l.log(context.Background(), LevelWarn, input, 0, msg, nil) }

// Error logs an error-level message for the given input at simulation time t.
func (l *Logger) Error(input string, t value.SimTime, msg string, err error) {
	l.log(context.Background(), LevelError, input, t, msg, err)
}

// ScanCompleted reports one Registry.Scan() cycle: how many inputs it
// covered and how long it took.
func (l *Logger) ScanCompleted(inputs int, dur time.Duration) {
	l.log(context.Background(), LevelDebug, "", 0,
		fmt.Sprintf("scan complete: %d inputs in %s", inputs, dur), nil)
}

func (l *Logger) log(ctx context.Context, level Level, input string, t value.SimTime, msg string, err error) {
	fields := []any{"federate", l.federate}
	if input != "" {
		fields = append(fields, "input", input)
	}
	if err != nil {
		fields = append(fields, "error", err)
	}

	switch level {
	case LevelDebug:
		l.logger.Debug(msg, fields...)
	case LevelInfo:
		l.logger.Info(msg, fields...)
	case LevelWarn:
		l.logger.Warn(msg, fields...)
	case LevelError:
		l.logger.Error(msg, fields...)
	}

	if !l.enabled {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}

	stack := ""
	if err != nil {
		stack = fmt.Sprintf("%+v", err)
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Federate:  l.federate,
		Input:     input,
		SimTime:   t.Seconds(),
		Message:   msg,
		Stack:     stack,
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		l.logger.Error("failed to marshal log entry", "error", marshalErr)
		return
	}

	nc := l.nc
	if nc == nil {
		return
	}

	subject := fmt.Sprintf("helics.logs.%s", l.federate)
	if pubErr := nc.Publish(subject, data); pubErr != nil {
		l.logger.Error("failed to publish log to NATS", "error", pubErr, "subject", subject)
	}
}
