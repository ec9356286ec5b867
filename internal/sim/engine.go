// Package sim owns the simulation state and advances it one tick at a time
// in a fixed order: AI, movement, petals, projectiles, collisions and combat,
// death check, passives, wave advance.
package sim

import (
	"context"
	"math"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/ai"
	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/combat"
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/internal/telemetry"
	"github.com/exotic24-7/zephyrax.io/internal/waves"
	"github.com/exotic24-7/zephyrax.io/logging"
	"github.com/exotic24-7/zephyrax.io/logging/lifecycle"
)

// EngineCore is the surface the Loop drives.
type EngineCore interface {
	Apply([]Command) error
	Step(dt time.Duration)
	Snapshot() Snapshot
	Deps() Deps
}

// Engine is the single-threaded simulation core. It is not safe for
// concurrent use; Loop serialises access.
type Engine struct {
	cfg      Config
	deps     Deps
	world    *state.World
	clock    Clock
	catalog  *catalog.Catalog
	policies ai.Table
	resolver *combat.Resolver
	director *waves.Director
	hooks    []namedHook
}

var _ EngineCore = (*Engine)(nil)

// Deps returns the injected dependencies.
func (e *Engine) Deps() Deps {
	return e.deps
}

// World exposes the underlying state for read-only inspection.
func (e *Engine) World() *state.World {
	return e.world
}

// Catalog returns the item and mob definitions in use.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Tick advances the simulation by one nominal frame.
func (e *Engine) Tick() {
	e.Step(FrameDuration)
}

// Step advances simulation time by dt and runs one tick. While the player is
// dead only the clock moves.
func (e *Engine) Step(dt time.Duration) {
	w := e.world
	w.Now = e.clock.Advance(dt)
	w.Tick = e.clock.Ticks()
	e.deps.Metrics.Add(telemetry.MetricTicks, 1)
	if w.Player == nil || w.Player.Dead {
		return
	}

	e.stepMobs(dt)
	e.stepPlayer()
	e.stepPetals()
	combat.AdvanceProjectiles(w)

	combat.SeparateMobs(w.Mobs)
	e.resolver.ResolvePlayerContacts(w)
	e.resolver.ResolvePetalContacts(w)
	e.resolver.ResolveMobProjectiles(w)
	e.resolver.ResolvePlayerProjectiles(w)
	if collected := e.resolver.CollectDrops(w); len(collected) > 0 {
		e.inventoryChanged("pickup", collected[len(collected)-1].Type, -1)
	}
	// Death is settled before passives so a heal cannot lift a dead player.
	if !e.handleDeath() {
		e.resolver.ApplyPassives(w)
	}
	w.CompactMobs()

	if _, err := e.director.Advance(w); err != nil {
		e.waveFailed(w.Wave+1, err)
	}

	e.deps.Metrics.Store(telemetry.MetricAliveMobs, uint64(len(w.Mobs)))
	e.deps.Metrics.Store(telemetry.MetricCurrentWave, uint64(w.Wave))
}

func (e *Engine) stepMobs(dt time.Duration) {
	w := e.world
	target := ai.Target{X: w.Player.X, Y: w.Player.Y}
	for _, m := range w.Mobs {
		if m == nil || m.Dead {
			continue
		}
		intent := e.policies.Decide(m, target, dt)
		if m.Stationary() {
			m.VX, m.VY = 0, 0
		} else {
			m.X += intent.DX
			m.Y += intent.DY
			physics.Integrate(&m.Body)
		}
		if intent.Shoot {
			e.fireMobProjectile(m, intent)
		}
	}
}

func (e *Engine) fireMobProjectile(m *state.Mob, intent ai.Intent) {
	radius := m.ProjectileRadius
	if radius <= 0 {
		radius = catalog.DefaultProjectileRadius
	}
	m.Projectiles = append(m.Projectiles, &state.Projectile{
		ID:      e.world.NextID(),
		X:       m.X,
		Y:       m.Y,
		DX:      intent.ShotVX,
		DY:      intent.ShotVY,
		Radius:  radius,
		Damage:  m.Damage,
		Mass:    combat.DefaultMobProjectileMass,
		Source:  m.Type,
		Owner:   state.OwnerMob,
		OwnerID: m.ID,
	})
}

func (e *Engine) stepPlayer() {
	w := e.world
	p := w.Player
	p.X += p.MoveX * p.Speed
	p.Y += p.MoveY * p.Speed
	physics.Integrate(&p.Body)
	physics.Clamp(&p.Body, w.Width, w.Height)
}

func (e *Engine) stepPetals() {
	p := e.world.Player
	p.PetalAngle = math.Mod(p.PetalAngle+state.PetalAngularSpeed, 2*math.Pi)
	target := p.OrbitDefault
	if p.Expanded {
		target = p.OrbitExpanded
	}
	p.OrbitDistance += (target - p.OrbitDistance) * state.OrbitLerp
}

// handleDeath flips the player into the dead state the first time health is
// depleted. It reports whether this call performed the transition.
func (e *Engine) handleDeath() bool {
	w := e.world
	p := w.Player
	if p == nil || p.Dead || p.Health > 0 {
		return false
	}
	p.Health = 0
	p.Dead = true
	p.MoveX, p.MoveY = 0, 0
	lifecycle.PlayerDied(context.Background(), e.deps.Publisher, w.Tick, logging.PlayerRef(),
		lifecycle.PlayerDiedPayload{Wave: w.Wave, X: p.X, Y: p.Y}, nil)
	e.deps.Logger.Printf("player died on wave %d at tick %d", w.Wave, w.Tick)
	return true
}

// Player returns the live player state.
func (e *Engine) Player() *state.Player {
	return e.world.Player
}

// Mobs returns the active mob set.
func (e *Engine) Mobs() []*state.Mob {
	return e.world.Mobs
}

// Projectiles returns every in-flight projectile: player shots, mob shots and
// shots whose owner has died.
func (e *Engine) Projectiles() []*state.Projectile {
	w := e.world
	out := make([]*state.Projectile, 0, len(w.Projectiles)+len(w.Strays))
	out = append(out, w.Projectiles...)
	for _, m := range w.Mobs {
		if m != nil {
			out = append(out, m.Projectiles...)
		}
	}
	return append(out, w.Strays...)
}

// Drops returns the drops waiting on the ground.
func (e *Engine) Drops() []*state.Drop {
	return e.world.Drops
}

// Wave returns the current wave number.
func (e *Engine) Wave() int {
	return e.world.Wave
}

// IsDead reports whether the player is in the dead state.
func (e *Engine) IsDead() bool {
	return e.world.Player == nil || e.world.Player.Dead
}

// Now returns the accumulated simulation time.
func (e *Engine) Now() time.Duration {
	return e.world.Now
}
