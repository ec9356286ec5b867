package combat

import (
	"math"
	"strconv"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// FallbackDamage is the manual-use damage for items without a configured
// damage stat.
func FallbackDamage(tier rarity.Tier) float64 {
	switch tier {
	case rarity.Rare:
		return 4
	case rarity.Epic:
		return 8
	case rarity.Legendary:
		return 16
	default:
		return 2
	}
}

func slotKey(i int) string {
	return "slot_" + strconv.Itoa(i)
}

func useKey(itemType string) string {
	return "use_" + itemType
}

// AttackResult counts the shots of one attack and lists the slots whose
// stack ran out.
type AttackResult struct {
	Fired int
	Spent []int
}

// TriggerAttack fires every on-attack item in the main row that is off
// cooldown. Each shot leaves from the slot's petal towards (targetX,
// targetY), restarts that slot's cooldown and spends one stack.
func (r *Resolver) TriggerAttack(w *state.World, targetX, targetY float64) AttackResult {
	var result AttackResult
	p := w.Player
	if p == nil || p.Dead {
		return result
	}
	for i, slot := range p.Main {
		if !slot.Active() {
			continue
		}
		def, ok := r.Catalog.Item(slot.Type)
		if !ok || !def.OnAttack {
			continue
		}
		cooldown := def.Cooldown
		if cooldown <= 0 {
			cooldown = DefaultAttackCooldown
		}
		key := slotKey(i)
		if !p.Cooldowns.Ready(key, w.Now, cooldown) {
			continue
		}
		sx, sy := p.PetalPosition(i)
		angle := math.Atan2(targetY-sy, targetX-sx)
		r.fire(w, sx, sy, angle, def.Damage, def.Mass, slot.Type)
		p.Cooldowns.Mark(key, w.Now)
		result.Fired++
		if slot.Spend() {
			result.Spent = append(result.Spent, i)
		}
	}
	return result
}

// UseResult describes a manual item use.
type UseResult struct {
	Slot     int
	Type     string
	Healed   float64
	Fired    bool
	Damage   float64
	Depleted bool
}

// TriggerItemUse uses the next ready main-row slot, scanning round-robin from
// the player's rotating pointer. Healing items restore health; everything
// else fires a projectile towards the aim point, or along +x without one.
// One stack is consumed. It reports false when no slot was ready.
func (r *Resolver) TriggerItemUse(w *state.World) (UseResult, bool) {
	p := w.Player
	if p == nil || p.Dead {
		return UseResult{}, false
	}
	start := p.NextUse % state.RowSize
	if start < 0 {
		start += state.RowSize
	}
	for offset := 0; offset < state.RowSize; offset++ {
		i := (start + offset) % state.RowSize
		slot := p.Main[i]
		if !slot.Active() {
			continue
		}
		def, known := r.Catalog.Item(slot.Type)
		cooldown := def.Cooldown
		if !known || cooldown <= 0 {
			cooldown = DefaultUseCooldown
		}
		key := useKey(slot.Type)
		if !p.Cooldowns.Ready(key, w.Now, cooldown) {
			continue
		}

		result := UseResult{Slot: i, Type: slot.Type}
		if known && def.Heals() {
			result.Healed = r.healPlayer(w, def.Heal, Cause{Kind: CauseHeal, Source: slot.Type, Slot: i})
		} else {
			damage := def.Damage
			if !known || damage <= 0 {
				damage = FallbackDamage(slot.Rarity)
			}
			sx, sy := p.PetalPosition(i)
			angle := 0.0
			if p.Aimed {
				angle = math.Atan2(p.AimY-sy, p.AimX-sx)
			}
			r.fire(w, sx, sy, angle, damage, def.Mass, slot.Type)
			result.Fired = true
			result.Damage = damage
		}
		p.Cooldowns.Mark(key, w.Now)
		result.Depleted = slot.Consume()
		p.NextUse = i + 1
		return result, true
	}
	return UseResult{}, false
}

func (r *Resolver) fire(w *state.World, x, y, angle, damage, mass float64, source string) {
	if mass <= 0 {
		mass = DefaultProjectileMass
	}
	proj := &state.Projectile{
		ID:     w.NextID(),
		X:      x,
		Y:      y,
		DX:     math.Cos(angle) * state.PlayerProjectileSpeed,
		DY:     math.Sin(angle) * state.PlayerProjectileSpeed,
		Radius: state.PlayerProjectileSize,
		Damage: damage,
		Mass:   mass,
		Source: source,
		Owner:  state.OwnerPlayer,
	}
	w.Projectiles = append(w.Projectiles, proj)
	if r.Hooks.ProjectileFired != nil {
		r.Hooks.ProjectileFired(proj)
	}
}
