package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/logging"
)

// ConsoleSink prints events as human-readable lines through zerolog's
// console writer.
type ConsoleSink struct {
	logger zerolog.Logger
}

func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	writer := zerolog.ConsoleWriter{Out: w, NoColor: !cfg.UseColor, TimeFormat: "15:04:05.000"}
	return &ConsoleSink{logger: zerolog.New(writer)}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	entry := s.logger.WithLevel(level(event.Severity)).
		Time(zerolog.TimestampFieldName, event.Time).
		Uint64("tick", event.Tick).
		Str("actor", formatEntity(event.Actor))
	if targets := formatTargets(event.Targets); targets != "" {
		entry = entry.Str("targets", targets)
	}
	if payload := formatPayload(event.Payload); payload != "" {
		entry = entry.RawJSON("payload", []byte(payload))
	}
	entry.Msg(string(event.Type))
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func level(sev logging.Severity) zerolog.Level {
	switch sev {
	case logging.SeverityDebug:
		return zerolog.DebugLevel
	case logging.SeverityInfo:
		return zerolog.InfoLevel
	case logging.SeverityWarn:
		return zerolog.WarnLevel
	case logging.SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return strings.Join(parts, ",")
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprintf("%v", payload))
	}
	return string(data)
}
