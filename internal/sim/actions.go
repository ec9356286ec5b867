package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/exotic24-7/zephyrax.io/internal/combat"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/logging"
	"github.com/exotic24-7/zephyrax.io/logging/lifecycle"
)

// ErrInvalidAmount indicates a non-positive item quantity.
var ErrInvalidAmount = errors.New("sim: amount must be positive")

// TriggerAttack fires every ready on-attack item towards (x, y) and returns
// the number of projectiles spawned. Every shot spends one stack.
func (e *Engine) TriggerAttack(x, y float64) int {
	result := e.resolver.TriggerAttack(e.world, x, y)
	if result.Fired == 0 {
		return 0
	}
	e.inventoryChanged("attack", "", -1)
	if len(result.Spent) > 0 {
		e.runEquipHooks("deplete")
	}
	return result.Fired
}

// TriggerItemUse uses the next ready main-row item round robin. A heal item
// restores health; anything else fires at the aim point.
func (e *Engine) TriggerItemUse() (combat.UseResult, bool) {
	result, ok := e.resolver.TriggerItemUse(e.world)
	if !ok {
		return result, false
	}
	e.inventoryChanged("use", result.Type, result.Slot)
	if result.Depleted {
		e.runEquipHooks("deplete")
	}
	return result, true
}

// Equip moves one item of the given type and rarity from the inventory into
// an empty slot.
func (e *Engine) Equip(slot int, row state.RowKind, itemType string, tier rarity.Tier) error {
	p := e.world.Player
	target, err := p.Row(row)
	if err != nil {
		return err
	}
	if !state.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", state.ErrSlotOutOfRange, slot)
	}
	if target[slot].Active() {
		return fmt.Errorf("%w: %s[%d]", state.ErrSlotOccupied, row, slot)
	}
	if p.Inventory.Remove(itemType, tier, 1) == 0 {
		return fmt.Errorf("%w: %s %s", state.ErrInsufficientInventory, tier, itemType)
	}
	target[slot] = &state.Slot{Type: itemType, Rarity: tier, Stack: 1}
	e.runEquipHooks("equip")
	e.inventoryChanged("equip", itemType, slot)
	return nil
}

// Unequip returns a slot's whole stack to the inventory.
func (e *Engine) Unequip(slot int, row state.RowKind) error {
	p := e.world.Player
	target, err := p.Row(row)
	if err != nil {
		return err
	}
	if !state.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", state.ErrSlotOutOfRange, slot)
	}
	current := target[slot]
	if !current.Active() {
		return fmt.Errorf("%w: %s[%d]", state.ErrSlotEmpty, row, slot)
	}
	stack := current.Stack
	if stack <= 0 {
		stack = 1
	}
	p.Inventory.Add(current.Type, current.Rarity, stack)
	target[slot] = nil
	e.runEquipHooks("unequip")
	e.inventoryChanged("unequip", current.Type, slot)
	return nil
}

// SwapSlot exchanges main[slot] and swap[slot].
func (e *Engine) SwapSlot(slot int) error {
	if !state.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", state.ErrSlotOutOfRange, slot)
	}
	p := e.world.Player
	if !p.Main[slot].Active() && !p.Swap[slot].Active() {
		return fmt.Errorf("%w: both rows at %d", state.ErrSlotEmpty, slot)
	}
	p.Main[slot], p.Swap[slot] = p.Swap[slot], p.Main[slot]
	e.runEquipHooks("swap")
	e.inventoryChanged("swap", "", slot)
	return nil
}

// AddToInventory stacks amount items onto the inventory.
func (e *Engine) AddToInventory(itemType string, tier rarity.Tier, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if itemType == "" {
		return fmt.Errorf("%w: empty item type", ErrInvalidAmount)
	}
	e.world.Player.Inventory.Add(itemType, rarity.Clamp(tier.Index()), amount)
	e.inventoryChanged("grant", itemType, -1)
	return nil
}

// Loadout copies the persisted part of the player.
func (e *Engine) Loadout() state.Loadout {
	return e.world.Player.Loadout()
}

// SetWave jumps to wave n and respawns its mob set. Non-positive waves are
// rejected without changing state.
func (e *Engine) SetWave(n int) error {
	return e.director.Start(e.world, n)
}

// SpawnDebugMob adds one mob of the named template near the player with the
// rarity index clamped into range.
func (e *Engine) SpawnDebugMob(name string, rarityIndex int) (*state.Mob, error) {
	return e.director.SpawnDebug(e.world, name, rarityIndex)
}

// Respawn restores the player at the arena centre with full health, clears
// every mob, drop and projectile and restarts the current wave.
func (e *Engine) Respawn() {
	w := e.world
	p := w.Player
	p.Health = p.MaxHealth
	p.X, p.Y = w.Width/2, w.Height/2
	p.VX, p.VY = 0, 0
	p.MoveX, p.MoveY = 0, 0
	p.Dead = false
	p.WasHit = false
	p.NextUse = 0
	w.ClearEntities()
	wave := w.Wave
	if wave < 1 {
		wave = 1
	}
	if err := e.director.Start(w, wave); err != nil {
		e.waveFailed(wave, err)
	}
	lifecycle.PlayerRespawned(context.Background(), e.deps.Publisher, w.Tick, logging.PlayerRef(),
		lifecycle.PlayerRespawnedPayload{Wave: w.Wave, SpawnX: p.X, SpawnY: p.Y}, nil)
}

// SetMoveIntent sets the player's movement direction. The vector is
// normalised; a zero vector stops movement.
func (e *Engine) SetMoveIntent(dx, dy float64) {
	p := e.world.Player
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		p.MoveX, p.MoveY = 0, 0
		return
	}
	p.MoveX, p.MoveY = dx/length, dy/length
}

// SetAim records the point manual item use fires towards.
func (e *Engine) SetAim(x, y float64) {
	p := e.world.Player
	p.AimX, p.AimY = x, y
	p.Aimed = true
}

// SetExpanded selects the expanded petal orbit.
func (e *Engine) SetExpanded(expanded bool) {
	e.world.Player.Expanded = expanded
}
