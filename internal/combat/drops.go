package combat

import (
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// SpawnDrops places the mob's drop table at its position, offsetting each
// entry diagonally by the template spacing.
func (r *Resolver) SpawnDrops(w *state.World, m *state.Mob) []*state.Drop {
	if m == nil || len(m.Drops) == 0 {
		return nil
	}
	spawned := make([]*state.Drop, 0, len(m.Drops))
	for i, itemType := range m.Drops {
		if itemType == "" {
			continue
		}
		offset := float64(i) * m.DropSpacing
		drop := &state.Drop{
			ID:     w.NextID(),
			X:      m.X + offset,
			Y:      m.Y + offset,
			Radius: state.DropRadius,
			Type:   itemType,
			Rarity: rarity.Common,
			Stack:  1,
		}
		w.Drops = append(w.Drops, drop)
		spawned = append(spawned, drop)
		if r.Hooks.DropSpawned != nil {
			r.Hooks.DropSpawned(drop)
		}
	}
	return spawned
}

// CollectDrops moves every drop touching the player into the inventory.
func (r *Resolver) CollectDrops(w *state.World) []*state.Drop {
	p := w.Player
	if p == nil || p.Dead {
		return nil
	}
	var collected []*state.Drop
	kept := w.Drops[:0]
	for _, drop := range w.Drops {
		if drop == nil {
			continue
		}
		if !physics.Overlaps(p.X, p.Y, p.Radius, drop.X, drop.Y, drop.Radius) {
			kept = append(kept, drop)
			continue
		}
		stack := drop.Stack
		if stack <= 0 {
			stack = 1
		}
		p.Inventory.Add(drop.Type, drop.Rarity, stack)
		collected = append(collected, drop)
		if r.Hooks.DropCollected != nil {
			r.Hooks.DropCollected(drop)
		}
	}
	for i := len(kept); i < len(w.Drops); i++ {
		w.Drops[i] = nil
	}
	w.Drops = kept
	return collected
}
