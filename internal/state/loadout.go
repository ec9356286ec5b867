package state

import "github.com/exotic24-7/zephyrax.io/internal/rarity"

// Loadout is the persisted part of the player: both equip rows and the
// inventory.
type Loadout struct {
	Main      Row       `json:"main"`
	Swap      Row       `json:"swap"`
	Inventory Inventory `json:"inventory"`
}

// Loadout copies the player's rows and inventory.
func (p *Player) Loadout() Loadout {
	return Loadout{
		Main:      p.Main.Clone(),
		Swap:      p.Swap.Clone(),
		Inventory: p.Inventory.Clone(),
	}
}

// ApplyLoadout replaces rows and inventory with copies from l. Slots with a
// non-positive stack or no type are dropped.
func (p *Player) ApplyLoadout(l Loadout) {
	p.Main = sanitizeRow(l.Main)
	p.Swap = sanitizeRow(l.Swap)
	p.Inventory = Inventory{}
	for _, entry := range l.Inventory.Entries {
		if entry.Type == "" || entry.Stack <= 0 {
			continue
		}
		p.Inventory.Add(entry.Type, rarity.Clamp(entry.Rarity.Index()), entry.Stack)
	}
	p.NextUse = 0
}

func sanitizeRow(row Row) Row {
	var out Row
	for i, slot := range row {
		if !slot.Active() {
			continue
		}
		cloned := slot.Clone()
		cloned.Rarity = rarity.Clamp(cloned.Rarity.Index())
		out[i] = cloned
	}
	return out
}
