// Package telemetry defines the logger and metrics surfaces shared by the
// simulation loop and the server.
package telemetry

import (
	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/logging"
)

// Logger exposes the logging capabilities required by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a zerolog logger to the Logger interface. Lines are
// written at the given level.
func WrapLogger(logger zerolog.Logger, level zerolog.Level) Logger {
	return &loggerAdapter{logger: logger, level: level}
}

type loggerAdapter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	if event := l.logger.WithLevel(l.level); event != nil {
		event.Msgf(format, args...)
	}
}

// Metrics exposes the telemetry methods required by server components.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// WrapMetrics adapts the logging metrics counters into the Metrics interface.
func WrapMetrics(metrics *logging.Metrics) Metrics {
	return &metricsAdapter{metrics: metrics}
}

type metricsAdapter struct {
	metrics *logging.Metrics
}

func (m *metricsAdapter) Add(key string, delta uint64) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.TelemetryAdd(key, delta)
}

func (m *metricsAdapter) Store(key string, value uint64) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.TelemetryStore(key, value)
}

// Tee fans every call out to each non-nil Metrics.
func Tee(all ...Metrics) Metrics {
	kept := make(tee, 0, len(all))
	for _, m := range all {
		if m != nil {
			kept = append(kept, m)
		}
	}
	return kept
}

type tee []Metrics

func (t tee) Add(key string, delta uint64) {
	for _, m := range t {
		m.Add(key, delta)
	}
}

func (t tee) Store(key string, value uint64) {
	for _, m := range t {
		m.Store(key, value)
	}
}
