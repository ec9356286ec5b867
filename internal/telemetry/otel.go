package telemetry

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/exotic24-7/zephyrax.io/internal/telemetry"

// Metric keys recorded by the simulation.
const (
	MetricTicks           = "sim_ticks_total"
	MetricDamageEvents    = "combat_damage_events_total"
	MetricMobsDefeated    = "combat_mobs_defeated_total"
	MetricWavesCleared    = "waves_cleared_total"
	MetricCurrentWave     = "waves_current"
	MetricAliveMobs       = "sim_alive_mobs"
	MetricLoggingDropped  = "logging_dropped_total"
	MetricTickOverruns    = "sim_tick_budget_overrun_total"
	MetricCommandsDropped = "sim_commands_dropped_total"
)

// OTelMetrics records counters and gauges through an OpenTelemetry meter.
// Instruments are created lazily per key.
type OTelMetrics struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
	gauges   map[string]metric.Int64Gauge
	errs     int
}

// NewOTelMetrics uses meter, or the global provider's meter when nil.
func NewOTelMetrics(meter metric.Meter) *OTelMetrics {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	return &OTelMetrics{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
		gauges:   make(map[string]metric.Int64Gauge),
	}
}

func (m *OTelMetrics) Add(key string, delta uint64) {
	if m == nil {
		return
	}
	counter, ok := m.counter(key)
	if !ok {
		return
	}
	counter.Add(context.Background(), int64(delta))
}

func (m *OTelMetrics) Store(key string, value uint64) {
	if m == nil {
		return
	}
	gauge, ok := m.gauge(key)
	if !ok {
		return
	}
	gauge.Record(context.Background(), int64(value))
}

// Errors reports how many instruments failed to register.
func (m *OTelMetrics) Errors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs
}

func (m *OTelMetrics) counter(key string) (metric.Int64Counter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[key]; ok {
		return c, true
	}
	c, err := m.meter.Int64Counter(instrumentName(key))
	if err != nil {
		m.errs++
		return nil, false
	}
	m.counters[key] = c
	return c, true
}

func (m *OTelMetrics) gauge(key string) (metric.Int64Gauge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gauges[key]; ok {
		return g, true
	}
	g, err := m.meter.Int64Gauge(instrumentName(key))
	if err != nil {
		m.errs++
		return nil, false
	}
	m.gauges[key] = g
	return g, true
}

// instrumentName converts snake_case keys into dotted OpenTelemetry names.
func instrumentName(key string) string {
	return "zephyrax." + strings.ReplaceAll(key, "_", ".")
}
