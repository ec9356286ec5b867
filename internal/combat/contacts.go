package combat

import (
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// ResolvePlayerContacts separates the player from every overlapping mob and
// applies contact damage. Knockback accumulates across mobs and ignores
// i-frames; damage does not.
func (r *Resolver) ResolvePlayerContacts(w *state.World) {
	p := w.Player
	if p == nil || p.Dead {
		return
	}
	for _, m := range w.Mobs {
		if m == nil || m.Dead {
			continue
		}
		if !physics.Overlaps(p.X, p.Y, p.Radius, m.X, m.Y, m.Radius) {
			continue
		}
		physics.Separate(&m.Body, &p.Body, physics.PlayerMob)
		r.DamagePlayer(w, m.ContactDamage, Cause{Kind: CauseContact, Source: m.Type, Slot: -1, MobID: m.ID})
	}
}

// ResolvePetalContacts damages mobs touched by orbiting petals. A given
// petal hits a given mob at most once per state.PetalHitCooldown.
func (r *Resolver) ResolvePetalContacts(w *state.World) {
	p := w.Player
	if p == nil || p.Dead {
		return
	}
	petals := p.Petals()
	if len(petals) == 0 {
		return
	}
	for _, m := range w.Mobs {
		for _, petal := range petals {
			if m == nil || m.Dead {
				break
			}
			if !physics.Overlaps(petal.X, petal.Y, petal.Radius, m.X, m.Y, m.Radius) {
				continue
			}
			if !m.PetalReady(petal.Slot, w.Now, state.PetalHitCooldown) {
				continue
			}
			m.MarkPetalHit(petal.Slot, w.Now)
			r.DamageMob(w, m, r.petalDamage(petal), Cause{Kind: CausePetal, Source: petal.Type, Slot: petal.Slot})
		}
	}
}

func (r *Resolver) petalDamage(petal state.Petal) float64 {
	base := 0.0
	if def, ok := r.Catalog.Item(petal.Type); ok {
		base = def.ContactDamage
	}
	if base <= 0 {
		base = 0.5
	}
	return base * petal.Rarity.Multiplier()
}

// SeparateMobs resolves every unique overlapping mob pair.
func SeparateMobs(mobs []*state.Mob) int {
	resolved := 0
	for i := 0; i < len(mobs); i++ {
		a := mobs[i]
		if a == nil || a.Dead {
			continue
		}
		for j := i + 1; j < len(mobs); j++ {
			b := mobs[j]
			if b == nil || b.Dead {
				continue
			}
			if _, ok := physics.Separate(&a.Body, &b.Body, physics.MobMob); ok {
				resolved++
			}
		}
	}
	return resolved
}
