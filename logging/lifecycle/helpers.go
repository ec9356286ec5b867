package lifecycle

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/logging"
)

const (
	// EventPlayerDied is emitted once when the player's health reaches zero.
	EventPlayerDied logging.EventType = "lifecycle.player_died"
	// EventPlayerRespawned is emitted when a dead player is reset.
	EventPlayerRespawned logging.EventType = "lifecycle.player_respawned"
	// EventMobSpawned is emitted for every mob entering the arena.
	EventMobSpawned logging.EventType = "lifecycle.mob_spawned"
)

// PlayerDiedPayload captures where the run ended.
type PlayerDiedPayload struct {
	Wave int     `json:"wave"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// PlayerRespawnedPayload captures the respawn point.
type PlayerRespawnedPayload struct {
	Wave   int     `json:"wave"`
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

// MobSpawnedPayload captures the scaled stats of a new mob.
type MobSpawnedPayload struct {
	MobType string  `json:"mobType"`
	Rarity  string  `json:"rarity"`
	Health  float64 `json:"health"`
	Radius  float64 `json:"radius"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// PlayerDied publishes a player death event.
func PlayerDied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDiedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventPlayerDied,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// PlayerRespawned publishes a respawn event.
func PlayerRespawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerRespawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventPlayerRespawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// MobSpawned publishes a mob spawn event.
func MobSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MobSpawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventMobSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
