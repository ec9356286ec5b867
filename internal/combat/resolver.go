// Package combat resolves damage, attacks, passive effects and pickups
// against an explicit state.World.
package combat

import (
	"fmt"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

const (
	// DefaultAttackCooldown applies to on-attack slots without a configured
	// cooldown.
	DefaultAttackCooldown = 800 * time.Millisecond
	// DefaultUseCooldown applies to manual use of unknown item types.
	DefaultUseCooldown = 900 * time.Millisecond

	// ProjectileKnockback scales player projectile impact on mobs.
	ProjectileKnockback = 6
	// MobProjectileKnockback scales mob projectile impact on the player.
	MobProjectileKnockback = 8
	// DefaultProjectileMass is used for player shots without a mass.
	DefaultProjectileMass = 0.5
	// DefaultMobProjectileMass is used for mob shots without a mass.
	DefaultMobProjectileMass = 0.6
)

// CauseKind classifies where damage or healing came from.
type CauseKind int

const (
	CauseContact CauseKind = iota
	CausePetal
	CauseProjectile
	CauseMobProjectile
	CauseAura
	CauseHeal
)

func (k CauseKind) String() string {
	switch k {
	case CauseContact:
		return "contact"
	case CausePetal:
		return "petal"
	case CauseProjectile:
		return "projectile"
	case CauseMobProjectile:
		return "mob_projectile"
	case CauseAura:
		return "aura"
	case CauseHeal:
		return "heal"
	default:
		return fmt.Sprintf("CauseKind(%d)", int(k))
	}
}

// Cause identifies a damage source. Slot is -1 when no equip slot applies.
type Cause struct {
	Kind   CauseKind
	Source string
	Slot   int
	MobID  uint64
}

// Hooks receive combat outcomes. Every field is optional.
type Hooks struct {
	MobDamaged      func(m *state.Mob, amount float64, cause Cause)
	MobDefeated     func(m *state.Mob, cause Cause)
	PlayerDamaged   func(amount float64, cause Cause)
	PlayerHealed    func(amount float64, cause Cause)
	ProjectileFired func(p *state.Projectile)
	// ProjectileHit fires when a projectile is consumed. mob is nil when the
	// player was struck; landed is false when i-frames absorbed the damage.
	ProjectileHit func(p *state.Projectile, mob *state.Mob, landed bool)
	DropSpawned   func(d *state.Drop)
	DropCollected func(d *state.Drop)
}

// Resolver applies combat rules using item and mob definitions from the
// catalog.
type Resolver struct {
	Catalog *catalog.Catalog
	Hooks   Hooks
}

// NewResolver constructs a resolver. A nil catalog uses the built-in one.
func NewResolver(c *catalog.Catalog, hooks Hooks) *Resolver {
	if c == nil {
		c = catalog.Default()
	}
	return &Resolver{Catalog: c, Hooks: hooks}
}

// DamageMob subtracts amount from the mob. The first hit that takes health to
// zero marks the mob dead and spawns its drops; later calls are ignored. It
// reports whether this call killed the mob.
func (r *Resolver) DamageMob(w *state.World, m *state.Mob, amount float64, cause Cause) bool {
	if m == nil || m.Dead || amount <= 0 {
		return false
	}
	m.Health -= amount
	m.HitFlash = w.Now
	if r.Hooks.MobDamaged != nil {
		r.Hooks.MobDamaged(m, amount, cause)
	}
	if m.Health > 0 {
		return false
	}
	m.Health = 0
	m.Dead = true
	if r.Hooks.MobDefeated != nil {
		r.Hooks.MobDefeated(m, cause)
	}
	r.SpawnDrops(w, m)
	return true
}

// DamagePlayer applies amount unless the player is dead or inside the
// i-frame window. It reports whether damage landed.
func (r *Resolver) DamagePlayer(w *state.World, amount float64, cause Cause) bool {
	p := w.Player
	if p == nil || p.Dead || amount <= 0 {
		return false
	}
	if !p.Vulnerable(w.Now, state.PlayerIFrameTime) {
		return false
	}
	applied := -p.ApplyHealthDelta(-amount)
	p.MarkHit(w.Now)
	if r.Hooks.PlayerDamaged != nil {
		r.Hooks.PlayerDamaged(applied, cause)
	}
	return true
}

func (r *Resolver) healPlayer(w *state.World, amount float64, cause Cause) float64 {
	p := w.Player
	if p == nil || p.Dead || amount <= 0 {
		return 0
	}
	applied := p.ApplyHealthDelta(amount)
	if applied > 0 && r.Hooks.PlayerHealed != nil {
		r.Hooks.PlayerHealed(applied, cause)
	}
	return applied
}
