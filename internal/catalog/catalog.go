package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the read-only lookup table of item definitions and mob
// templates consumed by the simulation.
type Catalog struct {
	items    map[string]ItemDef
	mobs     []MobTemplate
	mobIndex map[string]int
	source   string
}

// Default builds the catalog from the built-in definitions.
func Default() *Catalog {
	c, err := New(DefaultItems(), DefaultMobs())
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in definitions invalid: %v", err))
	}
	c.source = "builtin"
	return c
}

// New validates and indexes the provided definitions. Item and mob names are
// matched case-insensitively.
func New(items []ItemDef, mobs []MobTemplate) (*Catalog, error) {
	c := &Catalog{
		items:    make(map[string]ItemDef, len(items)),
		mobs:     make([]MobTemplate, 0, len(mobs)),
		mobIndex: make(map[string]int, len(mobs)),
	}
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item without name", ErrInvalidEntry)
		}
		key := strings.ToLower(name)
		if _, exists := c.items[key]; exists {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidEntry, name)
		}
		if item.Mass <= 0 {
			item.Mass = DefaultItemMass
		}
		if item.ContactDamage <= 0 {
			item.ContactDamage = DefaultContactDamage
		}
		if item.Passive.Kind != PassiveNone && item.Passive.Interval <= 0 {
			return nil, fmt.Errorf("%w: item %q passive needs a positive interval", ErrInvalidEntry, name)
		}
		item.Name = name
		c.items[key] = item
	}
	for _, tpl := range mobs {
		name := strings.TrimSpace(tpl.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: mob without name", ErrInvalidEntry)
		}
		key := strings.ToLower(name)
		if _, exists := c.mobIndex[key]; exists {
			return nil, fmt.Errorf("%w: duplicate mob %q", ErrInvalidEntry, name)
		}
		tpl.Name = name
		normalizeTemplate(&tpl)
		c.mobIndex[key] = len(c.mobs)
		c.mobs = append(c.mobs, tpl.clone())
	}
	if len(c.mobs) == 0 {
		return nil, fmt.Errorf("%w: no mob templates", ErrInvalidEntry)
	}
	return c, nil
}

func normalizeTemplate(tpl *MobTemplate) {
	if tpl.BaseHealth <= 0 {
		tpl.BaseHealth = DefaultBaseHealth
	}
	if tpl.BaseDamage <= 0 {
		tpl.BaseDamage = DefaultBaseDamage
	}
	if tpl.BaseSize <= 0 {
		tpl.BaseSize = DefaultBaseSize
	}
	if tpl.BaseSpeed < 0 {
		tpl.BaseSpeed = 0
	}
	if tpl.ContactDamage <= 0 {
		tpl.ContactDamage = DefaultContactDamage
	}
	if tpl.Behavior == BehaviorKeepDistance && tpl.ShootCooldown <= 0 {
		tpl.ShootCooldown = DefaultShootCooldown
	}
	if tpl.ProjectileSpeed <= 0 {
		tpl.ProjectileSpeed = DefaultProjectileSpeed
	}
	if tpl.ProjectileRadius <= 0 {
		tpl.ProjectileRadius = DefaultProjectileRadius
	}
	if tpl.DropSpacing <= 0 {
		tpl.DropSpacing = DefaultDropSpacing
	}
	if !tpl.BaseRarity.Valid() {
		tpl.BaseRarity = 0
	}
}

// Source describes where the catalog was loaded from.
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// Item looks up an item definition by name.
func (c *Catalog) Item(name string) (ItemDef, bool) {
	if c == nil {
		return ItemDef{}, false
	}
	def, ok := c.items[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// ItemNames returns the sorted list of known item names.
func (c *Catalog) ItemNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.items))
	for _, def := range c.items {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}

// Mob looks up a mob template by name.
func (c *Catalog) Mob(name string) (MobTemplate, bool) {
	if c == nil {
		return MobTemplate{}, false
	}
	idx, ok := c.mobIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return MobTemplate{}, false
	}
	return c.mobs[idx].clone(), true
}

// Mobs returns the templates in declaration order.
func (c *Catalog) Mobs() []MobTemplate {
	if c == nil {
		return nil
	}
	out := make([]MobTemplate, len(c.mobs))
	for i, tpl := range c.mobs {
		out[i] = tpl.clone()
	}
	return out
}

// MobCount reports the number of templates.
func (c *Catalog) MobCount() int {
	if c == nil {
		return 0
	}
	return len(c.mobs)
}

// MobAt returns the template at index in declaration order.
func (c *Catalog) MobAt(index int) (MobTemplate, bool) {
	if c == nil || index < 0 || index >= len(c.mobs) {
		return MobTemplate{}, false
	}
	return c.mobs[index].clone(), true
}
