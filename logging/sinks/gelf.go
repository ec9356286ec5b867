package sinks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"

	"github.com/exotic24-7/zephyrax.io/logging"
)

// GELF ships events to a Graylog UDP input.
type GELF struct {
	writer   *gelf.Writer
	host     string
	facility string
}

func NewGELF(cfg logging.GELFConfig) (*GELF, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("gelf sink: address is required")
	}
	writer, err := gelf.NewWriter(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("gelf sink: %w", err)
	}
	host, _ := os.Hostname()
	facility := cfg.Facility
	if facility == "" {
		facility = "zephyrax"
	}
	return &GELF{writer: writer, host: host, facility: facility}, nil
}

func (s *GELF) Write(event logging.Event) error {
	return s.writer.WriteMessage(gelfMessage(event, s.host, s.facility))
}

func (s *GELF) Close(context.Context) error {
	return s.writer.Close()
}

func gelfMessage(event logging.Event, host, facility string) *gelf.Message {
	extra := map[string]interface{}{
		"_tick":     event.Tick,
		"_category": event.Category,
		"_actor":    formatEntity(event.Actor),
	}
	if targets := formatTargets(event.Targets); targets != "" {
		extra["_targets"] = targets
	}
	for k, v := range event.Extra {
		extra["_"+k] = v
	}
	ts := event.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return &gelf.Message{
		Version:  "1.1",
		Host:     host,
		Short:    string(event.Type),
		Full:     formatPayload(event.Payload),
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    syslogLevel(event.Severity),
		Facility: facility,
		Extra:    extra,
	}
}

// syslogLevel maps severities onto the syslog levels GELF expects.
func syslogLevel(sev logging.Severity) int32 {
	switch sev {
	case logging.SeverityDebug:
		return 7
	case logging.SeverityWarn:
		return 4
	case logging.SeverityError:
		return 3
	default:
		return 6
	}
}
