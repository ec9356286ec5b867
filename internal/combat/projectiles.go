package combat

import (
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// ResolvePlayerProjectiles lets each player projectile hit at most one mob,
// the first overlapping one in mob order, and removes it on hit.
func (r *Resolver) ResolvePlayerProjectiles(w *state.World) int {
	hits := 0
	kept := w.Projectiles[:0]
	for _, proj := range w.Projectiles {
		if proj == nil {
			continue
		}
		target := firstOverlap(w.Mobs, proj)
		if target == nil {
			kept = append(kept, proj)
			continue
		}
		hits++
		mass := proj.Mass
		if mass <= 0 {
			mass = DefaultProjectileMass
		}
		mobMass := target.Mass
		if mobMass <= 0 {
			mobMass = 1
		}
		physics.Push(&target.Body, proj.X, proj.Y, mass/mobMass*ProjectileKnockback)
		r.DamageMob(w, target, proj.Damage, Cause{Kind: CauseProjectile, Source: proj.Source, Slot: -1})
		if r.Hooks.ProjectileHit != nil {
			r.Hooks.ProjectileHit(proj, target, true)
		}
	}
	clearTail(w.Projectiles, len(kept))
	w.Projectiles = kept
	return hits
}

func firstOverlap(mobs []*state.Mob, proj *state.Projectile) *state.Mob {
	for _, m := range mobs {
		if m == nil || m.Dead {
			continue
		}
		if physics.Overlaps(proj.X, proj.Y, proj.Radius, m.X, m.Y, m.Radius) {
			return m
		}
	}
	return nil
}

// ResolveMobProjectiles checks mob-owned and stray projectiles against the
// player. A hitting projectile is consumed and always knocks the player back;
// its damage respects i-frames.
func (r *Resolver) ResolveMobProjectiles(w *state.World) int {
	p := w.Player
	if p == nil || p.Dead {
		return 0
	}
	hits := 0
	for _, m := range w.Mobs {
		if m == nil {
			continue
		}
		var n int
		m.Projectiles, n = r.hitPlayer(w, m.Projectiles)
		hits += n
	}
	var n int
	w.Strays, n = r.hitPlayer(w, w.Strays)
	return hits + n
}

func (r *Resolver) hitPlayer(w *state.World, projectiles []*state.Projectile) ([]*state.Projectile, int) {
	p := w.Player
	hits := 0
	kept := projectiles[:0]
	for _, proj := range projectiles {
		if proj == nil {
			continue
		}
		if !physics.Overlaps(p.X, p.Y, p.Radius, proj.X, proj.Y, proj.Radius) {
			kept = append(kept, proj)
			continue
		}
		hits++
		mass := proj.Mass
		if mass <= 0 {
			mass = DefaultMobProjectileMass
		}
		playerMass := p.Mass
		if playerMass <= 0 {
			playerMass = 1
		}
		physics.Push(&p.Body, proj.X, proj.Y, mass/playerMass*MobProjectileKnockback)
		landed := r.DamagePlayer(w, proj.Damage, Cause{Kind: CauseMobProjectile, Source: proj.Source, Slot: -1, MobID: proj.OwnerID})
		if r.Hooks.ProjectileHit != nil {
			r.Hooks.ProjectileHit(proj, nil, landed)
		}
	}
	clearTail(projectiles, len(kept))
	return kept, hits
}

// AdvanceProjectiles moves every projectile one tick and drops those that
// left the arena margin.
func AdvanceProjectiles(w *state.World) {
	w.Projectiles = advance(w, w.Projectiles)
	w.Strays = advance(w, w.Strays)
	for _, m := range w.Mobs {
		if m != nil {
			m.Projectiles = advance(w, m.Projectiles)
		}
	}
}

func advance(w *state.World, projectiles []*state.Projectile) []*state.Projectile {
	kept := projectiles[:0]
	for _, proj := range projectiles {
		if proj == nil {
			continue
		}
		proj.Advance()
		if w.Offscreen(proj.X, proj.Y) {
			continue
		}
		kept = append(kept, proj)
	}
	clearTail(projectiles, len(kept))
	return kept
}

func clearTail(projectiles []*state.Projectile, from int) {
	for i := from; i < len(projectiles); i++ {
		projectiles[i] = nil
	}
}
