package telemetry

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/exotic24-7/zephyrax.io/logging"
)

func TestWrapLogger(t *testing.T) {
	t.Run("forwards to zerolog", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WrapLogger(zerolog.New(&buf), zerolog.WarnLevel)
		logger.Printf("hello %s", "world")
		assert.JSONEq(t, `{"level":"warn","message":"hello world"}`, buf.String())
	})

	t.Run("respects logger level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WrapLogger(zerolog.New(&buf).Level(zerolog.ErrorLevel), zerolog.InfoLevel)
		logger.Printf("quiet")
		assert.Empty(t, buf.String())
	})

	t.Run("nil func", func(t *testing.T) {
		var fn LoggerFunc
		fn.Printf("ignored %d", 42)
	})
}

func TestWrapMetrics(t *testing.T) {
	metrics := logging.Metrics{}
	adapter := WrapMetrics(&metrics)

	adapter.Add("test_counter", 2)
	adapter.Store("test_counter", 5)
	adapter.Add("test_counter", 3)

	assert.Equal(t, uint64(8), metrics.Snapshot()["test_counter"])

	nilAdapter := WrapMetrics(nil)
	nilAdapter.Add("ignored", 1)
	nilAdapter.Store("ignored", 1)
}

func TestTeeFansOut(t *testing.T) {
	var a, b logging.Metrics
	metrics := Tee(WrapMetrics(&a), nil, WrapMetrics(&b))

	metrics.Add(MetricTicks, 1)
	metrics.Store(MetricCurrentWave, 4)

	for _, m := range []*logging.Metrics{&a, &b} {
		snapshot := m.Snapshot()
		assert.Equal(t, uint64(1), snapshot[MetricTicks])
		assert.Equal(t, uint64(4), snapshot[MetricCurrentWave])
	}
}

func TestOTelMetricsCachesInstruments(t *testing.T) {
	metrics := NewOTelMetrics(noop.NewMeterProvider().Meter("test"))
	metrics.Add(MetricTicks, 1)
	metrics.Add(MetricTicks, 2)
	metrics.Store(MetricAliveMobs, 9)

	assert.Len(t, metrics.counters, 1)
	assert.Len(t, metrics.gauges, 1)
	assert.Zero(t, metrics.Errors())
	assert.Equal(t, "zephyrax.sim.ticks.total", instrumentName(MetricTicks))
}
