package state

import (
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
)

// Owner identifies who fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerMob
)

// Projectile is a single-hit circle moving by (DX, DY) each tick.
type Projectile struct {
	ID      uint64  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	Radius  float64 `json:"radius"`
	Damage  float64 `json:"damage"`
	Mass    float64 `json:"mass"`
	Source  string  `json:"source"`
	Owner   Owner   `json:"owner"`
	OwnerID uint64  `json:"ownerId,omitempty"`
}

// Advance moves the projectile one tick.
func (p *Projectile) Advance() {
	p.X += p.DX
	p.Y += p.DY
}

// Drop is a pickup left behind by a defeated mob.
type Drop struct {
	ID     uint64      `json:"id"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Radius float64     `json:"radius"`
	Type   string      `json:"type"`
	Rarity rarity.Tier `json:"rarity"`
	Stack  int         `json:"stack"`
}

// DropRadius is the pickup radius of spawned drops.
const DropRadius = 8

// Petal is the orbiting collision proxy of an equipped main-row slot.
type Petal struct {
	Slot   int         `json:"slot"`
	Angle  float64     `json:"angle"`
	Radius float64     `json:"radius"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Type   string      `json:"type"`
	Rarity rarity.Tier `json:"rarity"`
}

// Cooldowns stores the sim time at which each keyed action last fired.
type Cooldowns map[string]time.Duration

// Ready reports whether key may fire at now given cooldown.
func (c Cooldowns) Ready(key string, now, cooldown time.Duration) bool {
	last, ok := c[key]
	return !ok || now-last >= cooldown
}

// Mark records that key fired at now.
func (c Cooldowns) Mark(key string, now time.Duration) {
	c[key] = now
}
