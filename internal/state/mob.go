package state

import (
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
)

// Mob is a hostile entity. A mob leaves the active set exactly once, on the
// tick its health reaches zero.
type Mob struct {
	ID       uint64           `json:"id"`
	Type     string           `json:"type"`
	Behavior catalog.Behavior `json:"behavior"`
	Rarity   rarity.Tier      `json:"rarity"`

	physics.Body
	Speed float64 `json:"speed"`

	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`

	Damage           float64       `json:"damage"`
	ContactDamage    float64       `json:"-"`
	ShootCooldown    time.Duration `json:"-"`
	ShootTimer       time.Duration `json:"-"`
	ProjectileSpeed  float64       `json:"-"`
	ProjectileRadius float64       `json:"-"`

	Projectiles []*Projectile         `json:"projectiles,omitempty"`
	PetalHits   map[int]time.Duration `json:"-"`
	HitFlash    time.Duration         `json:"-"`
	Dead        bool                  `json:"-"`

	Drops       []string `json:"-"`
	DropSpacing float64  `json:"-"`
}

// Stationary reports whether the mob never moves.
func (m *Mob) Stationary() bool {
	return m.Behavior == catalog.BehaviorStationary
}

// PetalReady reports whether the petal bound to slot may hit this mob at now.
func (m *Mob) PetalReady(slot int, now, cooldown time.Duration) bool {
	last, ok := m.PetalHits[slot]
	return !ok || now-last >= cooldown
}

// MarkPetalHit records a petal hit at now.
func (m *Mob) MarkPetalHit(slot int, now time.Duration) {
	if m.PetalHits == nil {
		m.PetalHits = make(map[int]time.Duration)
	}
	m.PetalHits[slot] = now
}
