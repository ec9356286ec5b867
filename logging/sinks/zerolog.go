package sinks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/logging"
)

// Zerolog forwards events into an existing process logger so simulation
// events share its output and level filter.
type Zerolog struct {
	logger zerolog.Logger
}

func NewZerolog(logger zerolog.Logger) *Zerolog {
	return &Zerolog{logger: logger.With().Str("stream", "sim").Logger()}
}

func (s *Zerolog) Write(event logging.Event) error {
	entry := s.logger.WithLevel(level(event.Severity))
	if entry == nil {
		return nil
	}
	entry = entry.Str("type", string(event.Type)).
		Uint64("tick", event.Tick).
		Str("category", event.Category).
		Str("actor", formatEntity(event.Actor))
	if targets := formatTargets(event.Targets); targets != "" {
		entry = entry.Str("targets", targets)
	}
	if event.Payload != nil {
		entry = entry.Interface("payload", event.Payload)
	}
	if len(event.Extra) > 0 {
		entry = entry.Fields(event.Extra)
	}
	entry.Send()
	return nil
}

func (s *Zerolog) Close(context.Context) error {
	return nil
}
