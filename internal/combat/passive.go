package combat

import (
	"strconv"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

func passiveKey(i int) string {
	return "passive_" + strconv.Itoa(i)
}

// ApplyPassives runs interval effects for every active main-row slot. Each
// slot keeps its own timer so duplicate items tick independently.
func (r *Resolver) ApplyPassives(w *state.World) {
	p := w.Player
	if p == nil || p.Dead {
		return
	}
	for i, slot := range p.Main {
		if !slot.Active() {
			continue
		}
		def, ok := r.Catalog.Item(slot.Type)
		if !ok || def.Passive.Kind == catalog.PassiveNone {
			continue
		}
		key := passiveKey(i)
		if !p.Cooldowns.Ready(key, w.Now, def.Passive.Interval) {
			continue
		}
		p.Cooldowns.Mark(key, w.Now)
		cause := Cause{Source: slot.Type, Slot: i}
		switch def.Passive.Kind {
		case catalog.PassiveHeal:
			cause.Kind = CauseHeal
			r.healPlayer(w, def.Passive.Amount, cause)
		case catalog.PassiveAura:
			cause.Kind = CauseAura
			reach := p.OrbitDistance + def.Passive.Range
			for _, m := range w.Mobs {
				if m == nil || m.Dead {
					continue
				}
				if physics.Distance(p.X, p.Y, m.X, m.Y) < reach {
					r.DamageMob(w, m, def.Passive.Amount, cause)
				}
			}
		}
	}
}
