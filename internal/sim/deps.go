package sim

import (
	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
	"github.com/exotic24-7/zephyrax.io/logging"
)

// Deps carries shared infrastructure dependencies required by the simulation engine.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
	// Clock is the wall clock used by Loop.Run to measure tick budgets. It
	// never feeds simulation time.
	Clock logging.Clock
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	if d.Metrics == nil {
		d.Metrics = telemetry.WrapMetrics(nil)
	}
	if d.Publisher == nil {
		d.Publisher = logging.NopPublisher()
	}
	if d.Clock == nil {
		d.Clock = logging.SystemClock{}
	}
	return d
}
