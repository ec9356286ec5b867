package catalog

import "time"

const (
	DefaultContactDamage    = 0.5
	DefaultBaseHealth       = 30
	DefaultBaseDamage       = 2
	DefaultBaseSize         = 12
	DefaultShootCooldown    = 120
	DefaultProjectileSpeed  = 4
	DefaultProjectileRadius = 5
	DefaultItemMass         = 0.5
	DefaultDropSpacing      = 8
)

// DefaultItems returns the built-in item definitions.
func DefaultItems() []ItemDef {
	return []ItemDef{
		{
			Name:          "Rose",
			Heal:          15,
			Cooldown:      1000 * time.Millisecond,
			Mass:          0.2,
			ContactDamage: DefaultContactDamage,
			Passive:       Passive{Kind: PassiveHeal, Amount: 2, Interval: 1000 * time.Millisecond},
		},
		{
			Name:          "Light",
			Damage:        5,
			Cooldown:      700 * time.Millisecond,
			Mass:          0.3,
			OnAttack:      true,
			ContactDamage: DefaultContactDamage,
		},
		{
			Name:          "Stinger",
			Damage:        20,
			Cooldown:      5000 * time.Millisecond,
			Mass:          0.7,
			OnAttack:      true,
			ContactDamage: DefaultContactDamage,
		},
		{
			Name:          "Pollen",
			Damage:        3,
			Cooldown:      1200 * time.Millisecond,
			Mass:          0.25,
			ContactDamage: DefaultContactDamage,
			Passive:       Passive{Kind: PassiveAura, Amount: 2, Interval: 600 * time.Millisecond, Range: 20},
		},
		{
			Name:          "Missile",
			Damage:        10,
			Cooldown:      1200 * time.Millisecond,
			Mass:          1.0,
			OnAttack:      true,
			ContactDamage: DefaultContactDamage,
		},
	}
}

// DefaultMobs returns the built-in archetypes spawned when no template file
// is configured.
func DefaultMobs() []MobTemplate {
	return []MobTemplate{
		{
			Name:          "Ladybug",
			Behavior:      BehaviorChase,
			BaseHealth:    50,
			BaseDamage:    DefaultBaseDamage,
			BaseSize:      12,
			BaseSpeed:     1.5,
			ContactDamage: DefaultContactDamage,
			Drops:         []string{"Rose", "Light"},
			DropSpacing:   15,
		},
		{
			Name:          "Bee",
			Behavior:      BehaviorChase,
			BaseHealth:    30,
			BaseDamage:    DefaultBaseDamage,
			BaseSize:      10,
			BaseSpeed:     2,
			ContactDamage: 1,
			Drops:         []string{"Stinger", "Pollen"},
			DropSpacing:   15,
		},
		{
			Name:             "Hornet",
			Behavior:         BehaviorKeepDistance,
			BaseHealth:       40,
			BaseDamage:       5,
			BaseSize:         12,
			BaseSpeed:        1.2,
			ContactDamage:    DefaultContactDamage,
			ShootCooldown:    DefaultShootCooldown,
			ProjectileSpeed:  DefaultProjectileSpeed,
			ProjectileRadius: DefaultProjectileRadius,
			Drops:            []string{"Missile"},
		},
		{
			Name:          "Dandelion",
			Behavior:      BehaviorStationary,
			BaseHealth:    30,
			BaseDamage:    DefaultBaseDamage,
			BaseSize:      18,
			ContactDamage: DefaultContactDamage,
		},
	}
}
