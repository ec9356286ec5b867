package state

import (
	"math"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/physics"
)

// Player defaults.
const (
	PlayerRadius          = 15
	PlayerSpeed           = 4
	PlayerHealth          = 100
	PlayerMass            = 10
	PetalRadius           = 6
	OrbitDefault          = 30
	OrbitExpanded         = 80
	OrbitLerp             = 0.6
	PetalAngularSpeed     = 0.05
	PlayerIFrameTime      = 500 * time.Millisecond
	PetalHitCooldown      = 350 * time.Millisecond
	PlayerProjectileSpeed = 6
	PlayerProjectileSize  = 6
)

// Player is the single human-controlled actor. Positions are in arena
// pixels and velocities in pixels per tick.
type Player struct {
	physics.Body
	Speed float64 `json:"speed"`

	Health        float64 `json:"health"`
	MaxHealth     float64 `json:"maxHealth"`
	BaseMaxHealth float64 `json:"baseMaxHealth"`

	MoveX float64 `json:"-"`
	MoveY float64 `json:"-"`
	AimX  float64 `json:"aimX"`
	AimY  float64 `json:"aimY"`
	Aimed bool    `json:"aimed"`

	OrbitDistance float64 `json:"orbitDistance"`
	OrbitDefault  float64 `json:"-"`
	OrbitExpanded float64 `json:"-"`
	Expanded      bool    `json:"expanded"`
	PetalAngle    float64 `json:"petalAngle"`
	PetalRadius   float64 `json:"petalRadius"`

	Main      Row       `json:"main"`
	Swap      Row       `json:"swap"`
	Inventory Inventory `json:"inventory"`

	Cooldowns Cooldowns     `json:"-"`
	LastHit   time.Duration `json:"-"`
	WasHit    bool          `json:"-"`
	HitFlash  time.Duration `json:"-"`
	NextUse   int           `json:"-"`
	Dead      bool          `json:"dead"`
}

// NewPlayer returns a player with default stats centred at (x, y).
func NewPlayer(x, y float64) *Player {
	return &Player{
		Body:          physics.Body{X: x, Y: y, Radius: PlayerRadius, Mass: PlayerMass},
		Speed:         PlayerSpeed,
		Health:        PlayerHealth,
		MaxHealth:     PlayerHealth,
		BaseMaxHealth: PlayerHealth,
		OrbitDistance: OrbitDefault,
		OrbitDefault:  OrbitDefault,
		OrbitExpanded: OrbitExpanded,
		PetalRadius:   PetalRadius,
		Cooldowns:     make(Cooldowns),
	}
}

// Row returns a pointer to the requested equip row.
func (p *Player) Row(kind RowKind) (*Row, error) {
	switch kind {
	case RowMain:
		return &p.Main, nil
	case RowSwap:
		return &p.Swap, nil
	default:
		return nil, ErrUnknownRow
	}
}

// Vulnerable reports whether damage can land at now given the i-frame window.
func (p *Player) Vulnerable(now, iframe time.Duration) bool {
	return !p.WasHit || now-p.LastHit >= iframe
}

// MarkHit starts a new i-frame window.
func (p *Player) MarkHit(now time.Duration) {
	p.WasHit = true
	p.LastHit = now
	p.HitFlash = now
}

// ApplyHealthDelta adds delta to health, clamped to [0, MaxHealth], and
// returns the change actually applied.
func (p *Player) ApplyHealthDelta(delta float64) float64 {
	before := p.Health
	p.Health = ClampHealth(p.Health+delta, p.MaxHealth)
	return p.Health - before
}

// SetMaxHealth updates the maximum and clamps current health into range.
func (p *Player) SetMaxHealth(max float64) {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		return
	}
	p.MaxHealth = max
	p.Health = ClampHealth(p.Health, max)
}

// PetalAngleFor returns the orbit angle of the petal bound to slot.
func (p *Player) PetalAngleFor(slot int) float64 {
	return p.PetalAngle + 2*math.Pi*float64(slot)/RowSize
}

// PetalPosition returns the world position of the petal bound to slot.
func (p *Player) PetalPosition(slot int) (float64, float64) {
	angle := p.PetalAngleFor(slot)
	return p.X + math.Cos(angle)*p.OrbitDistance, p.Y + math.Sin(angle)*p.OrbitDistance
}

// Petals lists the orbiting petals, one per active main-row slot.
func (p *Player) Petals() []Petal {
	petals := make([]Petal, 0, RowSize)
	for i, slot := range p.Main {
		if !slot.Active() {
			continue
		}
		x, y := p.PetalPosition(i)
		petals = append(petals, Petal{
			Slot:   i,
			Angle:  p.PetalAngleFor(i),
			Radius: p.PetalRadius,
			X:      x,
			Y:      y,
			Type:   slot.Type,
			Rarity: slot.Rarity,
		})
	}
	return petals
}
