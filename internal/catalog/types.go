package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
)

var (
	// ErrUnknownBehavior is returned when a mob document names an unsupported
	// movement policy.
	ErrUnknownBehavior = errors.New("catalog: unknown behavior")
	// ErrUnknownPassive is returned for unsupported passive effect kinds.
	ErrUnknownPassive = errors.New("catalog: unknown passive kind")
	// ErrInvalidEntry marks a structurally broken item or mob entry.
	ErrInvalidEntry = errors.New("catalog: invalid entry")
)

// Behavior selects the movement policy a mob follows each tick.
type Behavior int

const (
	BehaviorChase Behavior = iota
	BehaviorKeepDistance
	BehaviorStationary
)

func (b Behavior) String() string {
	switch b {
	case BehaviorChase:
		return "chase"
	case BehaviorKeepDistance:
		return "keepDistance"
	case BehaviorStationary:
		return "stationary"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// ParseBehavior resolves a behavior name. An empty value means chase.
func ParseBehavior(value string) (Behavior, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "chase":
		return BehaviorChase, nil
	case "keepdistance", "keep-distance", "ranged":
		return BehaviorKeepDistance, nil
	case "stationary":
		return BehaviorStationary, nil
	default:
		return BehaviorChase, fmt.Errorf("%w: %q", ErrUnknownBehavior, value)
	}
}

// PassiveKind identifies an interval effect that runs while an item is
// equipped in the main row.
type PassiveKind int

const (
	PassiveNone PassiveKind = iota
	PassiveHeal
	PassiveAura
)

func (k PassiveKind) String() string {
	switch k {
	case PassiveNone:
		return "none"
	case PassiveHeal:
		return "heal"
	case PassiveAura:
		return "aura"
	default:
		return fmt.Sprintf("PassiveKind(%d)", int(k))
	}
}

// ParsePassive resolves a passive kind name.
func ParsePassive(value string) (PassiveKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return PassiveNone, nil
	case "heal":
		return PassiveHeal, nil
	case "aura":
		return PassiveAura, nil
	default:
		return PassiveNone, fmt.Errorf("%w: %q", ErrUnknownPassive, value)
	}
}

// Passive describes an interval effect. Aura reaches Range units past the
// player's current orbit distance.
type Passive struct {
	Kind     PassiveKind
	Amount   float64
	Interval time.Duration
	Range    float64
}

// ItemDef is the resolved definition of an equippable item type.
type ItemDef struct {
	Name           string
	Damage         float64
	Heal           float64
	Cooldown       time.Duration
	Mass           float64
	OnAttack       bool
	ContactDamage  float64
	MaxHealthBonus float64
	Passive        Passive
}

// Heals reports whether manual use restores health instead of firing.
func (d ItemDef) Heals() bool {
	return d.Heal > 0
}

// MobTemplate is the resolved spawn template for a mob type.
type MobTemplate struct {
	Name             string
	Behavior         Behavior
	BaseHealth       float64
	BaseDamage       float64
	BaseSize         float64
	BaseSpeed        float64
	BaseRarity       rarity.Tier
	ContactDamage    float64
	ShootCooldown    int
	ProjectileSpeed  float64
	ProjectileRadius float64
	Drops            []string
	DropSpacing      float64
}

func (t MobTemplate) clone() MobTemplate {
	t.Drops = append([]string(nil), t.Drops...)
	return t
}
