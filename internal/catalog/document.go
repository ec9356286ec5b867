package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
)

// Document is the on-disk catalog format. It is exported so the schema
// generator can reflect over it.
type Document struct {
	Items []ItemDocument `json:"items,omitempty" jsonschema:"title=Items,description=Equippable item definitions. Built-in items are used when empty."`
	Mobs  []MobDocument  `json:"mobs,omitempty" jsonschema:"title=Mobs,description=Mob spawn templates. Built-in archetypes are used when empty."`
}

// ItemDocument describes a single item type.
type ItemDocument struct {
	Name           string           `json:"name" jsonschema:"title=Name,minLength=1,required"`
	Damage         float64          `json:"damage,omitempty" jsonschema:"minimum=0"`
	Heal           float64          `json:"heal,omitempty" jsonschema:"minimum=0"`
	CooldownMs     int              `json:"cooldown,omitempty" jsonschema:"title=Cooldown (ms),minimum=0"`
	Mass           float64          `json:"mass,omitempty" jsonschema:"minimum=0"`
	OnAttack       bool             `json:"onAttack,omitempty" jsonschema:"description=Fires a projectile from its petal on every attack trigger."`
	ContactDamage  float64          `json:"contactDamage,omitempty" jsonschema:"minimum=0"`
	MaxHealthBonus float64          `json:"maxHealthBonus,omitempty"`
	Passive        *PassiveDocument `json:"passive,omitempty"`
}

// PassiveDocument describes an interval effect.
type PassiveDocument struct {
	Kind       string  `json:"kind" jsonschema:"enum=heal,enum=aura,required"`
	Amount     float64 `json:"amount"`
	IntervalMs int     `json:"interval" jsonschema:"title=Interval (ms),minimum=1,required"`
	Range      float64 `json:"range,omitempty"`
}

// MobDocument describes a mob template. ID takes precedence over Name.
type MobDocument struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	Behavior      string   `json:"behavior,omitempty" jsonschema:"enum=chase,enum=keepDistance,enum=stationary"`
	Stationary    bool     `json:"stationary,omitempty"`
	BaseHP        float64  `json:"baseHP,omitempty" jsonschema:"minimum=0"`
	BaseDamage    float64  `json:"baseDamage,omitempty" jsonschema:"minimum=0"`
	BaseSize      float64  `json:"baseSize,omitempty" jsonschema:"minimum=0"`
	BaseSpeed     float64  `json:"baseSpeed,omitempty" jsonschema:"minimum=0"`
	BaseRarity    int      `json:"baseRarity,omitempty" jsonschema:"minimum=0,maximum=13"`
	ContactDamage float64  `json:"contactDamage,omitempty"`
	ShootCooldown *int     `json:"shootCooldown,omitempty" jsonschema:"description=Frames between shots at the nominal tick rate."`
	Drops         []string `json:"drops,omitempty"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	c.source = path
	return c, nil
}

// LoadOrDefault loads the file at path, falling back to the built-in
// catalog when the path is empty, missing or invalid. The returned error
// explains a fallback and is safe to log and ignore.
func LoadOrDefault(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	c, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	return c, nil
}

// Decode parses a catalog document.
func Decode(data []byte) (*Catalog, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Resolve()
}

// Resolve converts the document into a validated catalog.
func (d Document) Resolve() (*Catalog, error) {
	items := DefaultItems()
	if len(d.Items) > 0 {
		items = make([]ItemDef, 0, len(d.Items))
		for _, entry := range d.Items {
			def, err := entry.resolve()
			if err != nil {
				return nil, err
			}
			items = append(items, def)
		}
	}
	mobs := DefaultMobs()
	if len(d.Mobs) > 0 {
		mobs = make([]MobTemplate, 0, len(d.Mobs))
		for _, entry := range d.Mobs {
			tpl, err := entry.resolve()
			if err != nil {
				return nil, err
			}
			mobs = append(mobs, tpl)
		}
	}
	return New(items, mobs)
}

func (d ItemDocument) resolve() (ItemDef, error) {
	def := ItemDef{
		Name:           d.Name,
		Damage:         d.Damage,
		Heal:           d.Heal,
		Cooldown:       time.Duration(d.CooldownMs) * time.Millisecond,
		Mass:           d.Mass,
		OnAttack:       d.OnAttack,
		ContactDamage:  d.ContactDamage,
		MaxHealthBonus: d.MaxHealthBonus,
	}
	if d.Passive != nil {
		kind, err := ParsePassive(d.Passive.Kind)
		if err != nil {
			return ItemDef{}, fmt.Errorf("item %q: %w", d.Name, err)
		}
		def.Passive = Passive{
			Kind:     kind,
			Amount:   d.Passive.Amount,
			Interval: time.Duration(d.Passive.IntervalMs) * time.Millisecond,
			Range:    d.Passive.Range,
		}
	}
	return def, nil
}

func (d MobDocument) resolve() (MobTemplate, error) {
	name := strings.TrimSpace(d.ID)
	if name == "" {
		name = strings.TrimSpace(d.Name)
	}
	behavior, err := ParseBehavior(d.Behavior)
	if err != nil {
		return MobTemplate{}, fmt.Errorf("mob %q: %w", name, err)
	}
	if d.Behavior == "" && strings.EqualFold(name, "hornet") {
		behavior = BehaviorKeepDistance
	}
	if d.Stationary {
		behavior = BehaviorStationary
	}
	tpl := MobTemplate{
		Name:          name,
		Behavior:      behavior,
		BaseHealth:    d.BaseHP,
		BaseDamage:    d.BaseDamage,
		BaseSize:      d.BaseSize,
		BaseSpeed:     d.BaseSpeed,
		BaseRarity:    rarity.Clamp(d.BaseRarity),
		ContactDamage: d.ContactDamage,
		Drops:         append([]string(nil), d.Drops...),
	}
	if d.ShootCooldown != nil {
		tpl.ShootCooldown = *d.ShootCooldown
		if tpl.ShootCooldown > 0 && behavior == BehaviorChase && d.Behavior == "" {
			tpl.Behavior = BehaviorKeepDistance
		}
	}
	return tpl, nil
}
