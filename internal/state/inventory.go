package state

import "github.com/exotic24-7/zephyrax.io/internal/rarity"

// InventoryEntry is a stack of one item type at one rarity.
type InventoryEntry struct {
	Type   string      `json:"type"`
	Rarity rarity.Tier `json:"rarity"`
	Stack  int         `json:"stack"`
}

// Inventory is the player's unequipped item list. Entries stack by
// type and rarity.
type Inventory struct {
	Entries []InventoryEntry `json:"entries"`
}

// Add stacks amount onto the matching entry or appends a new one. Non-positive
// amounts are ignored.
func (inv *Inventory) Add(itemType string, tier rarity.Tier, amount int) {
	if inv == nil || itemType == "" || amount <= 0 {
		return
	}
	for i := range inv.Entries {
		if inv.Entries[i].Type == itemType && inv.Entries[i].Rarity == tier {
			inv.Entries[i].Stack += amount
			return
		}
	}
	inv.Entries = append(inv.Entries, InventoryEntry{Type: itemType, Rarity: tier, Stack: amount})
}

// Count returns the total stack held for the type and rarity.
func (inv *Inventory) Count(itemType string, tier rarity.Tier) int {
	if inv == nil {
		return 0
	}
	total := 0
	for _, entry := range inv.Entries {
		if entry.Type == itemType && entry.Rarity == tier && entry.Stack > 0 {
			total += entry.Stack
		}
	}
	return total
}

// Remove takes up to amount from matching entries and returns how many were
// removed. Entries that reach zero are dropped.
func (inv *Inventory) Remove(itemType string, tier rarity.Tier, amount int) int {
	if inv == nil || amount <= 0 {
		return 0
	}
	remaining := amount
	for i := len(inv.Entries) - 1; i >= 0 && remaining > 0; i-- {
		entry := &inv.Entries[i]
		if entry.Type != itemType || entry.Rarity != tier {
			continue
		}
		take := entry.Stack
		if take > remaining {
			take = remaining
		}
		if take < 0 {
			take = 0
		}
		entry.Stack -= take
		remaining -= take
		if entry.Stack <= 0 {
			inv.Entries = append(inv.Entries[:i], inv.Entries[i+1:]...)
		}
	}
	return amount - remaining
}

// Clone deep-copies the inventory.
func (inv Inventory) Clone() Inventory {
	if len(inv.Entries) == 0 {
		return Inventory{}
	}
	return Inventory{Entries: append([]InventoryEntry(nil), inv.Entries...)}
}
