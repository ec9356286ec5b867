package combat

import (
	"context"

	"github.com/exotic24-7/zephyrax.io/logging"
)

const (
	// EventDamage is emitted when damage lands on a mob or the player.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted once when a mob is defeated.
	EventDefeat logging.EventType = "combat.defeat"
	// EventProjectileHit is emitted when a projectile is consumed by a hit.
	EventProjectileHit logging.EventType = "combat.projectile_hit"
)

// DamagePayload captures the amount dealt to a single target.
type DamagePayload struct {
	Cause        string  `json:"cause"`
	Source       string  `json:"source,omitempty"`
	Slot         int     `json:"slot"`
	Amount       float64 `json:"amount"`
	TargetHealth float64 `json:"targetHealth"`
}

// DefeatPayload describes the context for a fatal blow.
type DefeatPayload struct {
	MobType string `json:"mobType"`
	Rarity  string `json:"rarity"`
	Cause   string `json:"cause"`
	Source  string `json:"source,omitempty"`
}

// ProjectileHitPayload describes a consumed projectile.
type ProjectileHitPayload struct {
	Source string  `json:"source"`
	Damage float64 `json:"damage"`
	Landed bool    `json:"landed"`
}

// Damage publishes a combat damage event for a single target.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Defeat publishes a combat defeat event for the eliminated mob.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventDefeat,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// ProjectileHit publishes a projectile impact.
func ProjectileHit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload ProjectileHitPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventProjectileHit,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
