package sim

import (
	"context"
	"fmt"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/logging/simulation"
)

// EquipHook runs after every change to the equip rows. A returned error is
// logged and never aborts the change or the remaining hooks.
type EquipHook func(w *state.World) error

type namedHook struct {
	name string
	hook EquipHook
}

// RegisterEquipHook appends a hook that runs after later equip changes.
func (e *Engine) RegisterEquipHook(name string, hook EquipHook) {
	if hook == nil {
		return
	}
	e.hooks = append(e.hooks, namedHook{name: name, hook: hook})
}

// runEquipHooks runs every hook and returns the failures.
func (e *Engine) runEquipHooks(reason string) []error {
	var failures []error
	for _, h := range e.hooks {
		err := h.hook(e.world)
		if err == nil {
			continue
		}
		failures = append(failures, fmt.Errorf("equip hook %s: %w", h.name, err))
		simulation.EquipHookFailed(context.Background(), e.deps.Publisher, e.world.Tick,
			simulation.EquipHookFailedPayload{Hook: h.name, Reason: reason, Error: err.Error()}, nil)
		e.deps.Logger.Printf("equip hook %s failed after %s: %v", h.name, reason, err)
	}
	return failures
}

// MaxHealthHook recomputes the player's maximum health as the base value
// plus the maxHealthBonus of every active main-row item.
func MaxHealthHook(c *catalog.Catalog) EquipHook {
	return func(w *state.World) error {
		p := w.Player
		if p == nil {
			return nil
		}
		bonus := 0.0
		for _, slot := range p.Main {
			if !slot.Active() {
				continue
			}
			if def, ok := c.Item(slot.Type); ok {
				bonus += def.MaxHealthBonus
			}
		}
		max := p.BaseMaxHealth + bonus
		if max <= 0 {
			return fmt.Errorf("max health bonus %g leaves %g", bonus, max)
		}
		p.SetMaxHealth(max)
		return nil
	}
}
