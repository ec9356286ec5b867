package economy

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/logging"
)

const (
	// EventDropSpawned is emitted whenever a defeated mob leaves a drop.
	EventDropSpawned logging.EventType = "economy.drop_spawned"
	// EventPickup is emitted whenever the player collects a drop.
	EventPickup logging.EventType = "economy.pickup"
	// EventInventoryChanged is emitted after any change to the inventory or
	// equip rows. Persistence listens for it.
	EventInventoryChanged logging.EventType = "economy.inventory_changed"
)

// DropPayload describes a drop on the ground.
type DropPayload struct {
	ItemType string  `json:"itemType"`
	Rarity   string  `json:"rarity"`
	Quantity int     `json:"quantity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// InventoryChangedPayload names what caused the change.
type InventoryChangedPayload struct {
	Reason   string `json:"reason"`
	ItemType string `json:"itemType,omitempty"`
	Slot     int    `json:"slot"`
}

// DropSpawned publishes a drop spawn.
func DropSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload DropPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventDropSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Pickup publishes a successful drop pickup.
func Pickup(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload DropPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventPickup,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// InventoryChanged publishes an inventory or loadout change.
func InventoryChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload InventoryChangedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventInventoryChanged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
