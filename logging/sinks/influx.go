package sinks

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/logging"
)

// Influx writes every event as a point through the non-blocking write API.
// Numeric payload fields become point fields.
type Influx struct {
	client      influxdb2.Client
	writer      influxdb2_api.WriteAPI
	measurement string
}

func NewInflux(cfg logging.InfluxConfig, log zerolog.Logger) (*Influx, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("influx sink: url is required")
	}
	batch := cfg.BatchSize
	if batch == 0 {
		batch = 500
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(batch).
			SetFlushInterval(1000),
	)
	measurement := cfg.Measurement
	if measurement == "" {
		measurement = "sim_events"
	}
	s := &Influx{
		client:      client,
		writer:      client.WriteAPI(cfg.Org, cfg.Bucket),
		measurement: measurement,
	}
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			log.Error().Err(writeErr).Str("bucket", cfg.Bucket).Msg("Error sending data to InfluxDB")
		}
	}(s.writer.Errors())
	return s, nil
}

func (s *Influx) Write(event logging.Event) error {
	s.writer.WritePoint(eventPoint(s.measurement, event))
	return nil
}

// Close flushes pending points and releases the client.
func (s *Influx) Close(context.Context) error {
	s.writer.Flush()
	s.client.Close()
	return nil
}

func eventPoint(measurement string, event logging.Event) *influxdb2_write.Point {
	tags := map[string]string{
		"type":     string(event.Type),
		"category": event.Category,
		"severity": event.Severity.String(),
	}
	if event.Actor.Kind != "" {
		tags["actor_kind"] = string(event.Actor.Kind)
	}
	fields := map[string]interface{}{
		"tick":  event.Tick,
		"count": 1,
	}
	for k, v := range numericFields(event.Payload) {
		fields[k] = v
	}
	return influxdb2.NewPoint(measurement, tags, fields, event.Time)
}
