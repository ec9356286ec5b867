package network

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/logging"
)

const (
	// EventObserverJoined is emitted when a websocket client connects.
	EventObserverJoined logging.EventType = "network.observer_joined"
	// EventObserverLeft is emitted when a websocket client goes away.
	EventObserverLeft logging.EventType = "network.observer_left"
	// EventInputRejected is emitted when a client message cannot be decoded
	// or queued.
	EventInputRejected logging.EventType = "network.input_rejected"
)

// ObserverPayload describes a websocket client.
type ObserverPayload struct {
	Remote    string `json:"remote"`
	Observers int    `json:"observers"`
	Reason    string `json:"reason,omitempty"`
}

// InputRejectedPayload describes a refused client message.
type InputRejectedPayload struct {
	MessageType string `json:"messageType,omitempty"`
	Reason      string `json:"reason"`
}

func observerRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindUnknown}
}

// ObserverJoined publishes a connect event.
func ObserverJoined(ctx context.Context, pub logging.Publisher, tick uint64, id string, payload ObserverPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventObserverJoined,
		Tick:     tick,
		Actor:    observerRef(id),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

// ObserverLeft publishes a disconnect event.
func ObserverLeft(ctx context.Context, pub logging.Publisher, tick uint64, id string, payload ObserverPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventObserverLeft,
		Tick:     tick,
		Actor:    observerRef(id),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

// InputRejected publishes a warning for an unusable client message.
func InputRejected(ctx context.Context, pub logging.Publisher, tick uint64, id string, payload InputRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventInputRejected,
		Tick:     tick,
		Actor:    observerRef(id),
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}
