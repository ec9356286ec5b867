package waves

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/logging"
)

const (
	// EventStarted is emitted when a wave's mob set has been generated.
	EventStarted logging.EventType = "waves.started"
	// EventCleared is emitted when the last mob of a wave is gone.
	EventCleared logging.EventType = "waves.cleared"
	// EventStartFailed is emitted when the next wave could not be generated.
	EventStartFailed logging.EventType = "waves.start_failed"
)

// StartedPayload captures the generated wave size.
type StartedPayload struct {
	Wave  int `json:"wave"`
	Count int `json:"count"`
}

// ClearedPayload identifies the finished wave.
type ClearedPayload struct {
	Wave int `json:"wave"`
}

// StartFailedPayload carries the wave that could not start.
type StartFailedPayload struct {
	Wave  int    `json:"wave"`
	Error string `json:"error"`
}

// Started publishes a wave start.
func Started(ctx context.Context, pub logging.Publisher, tick uint64, payload StartedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStarted,
		Tick:     tick,
		Actor:    logging.WorldRef(),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryWaves,
		Payload:  payload,
		Extra:    extra,
	})
}

// Cleared publishes a wave clear.
func Cleared(ctx context.Context, pub logging.Publisher, tick uint64, payload ClearedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCleared,
		Tick:     tick,
		Actor:    logging.WorldRef(),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryWaves,
		Payload:  payload,
		Extra:    extra,
	})
}

// StartFailed publishes a wave that could not be generated.
func StartFailed(ctx context.Context, pub logging.Publisher, tick uint64, payload StartFailedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStartFailed,
		Tick:     tick,
		Actor:    logging.WorldRef(),
		Severity: logging.SeverityWarn,
		Category: logging.CategoryWaves,
		Payload:  payload,
		Extra:    extra,
	})
}
