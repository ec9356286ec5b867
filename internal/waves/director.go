// Package waves decides when a wave clears and what spawns next.
package waves

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/exotic24-7/zephyrax.io/internal/ai"
	"github.com/exotic24-7/zephyrax.io/internal/catalog"
	"github.com/exotic24-7/zephyrax.io/internal/physics"
	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

const (
	MinCount  = 3
	BaseCount = 6
	// DebugSpawnSpread is the half-width of the box around the player that
	// debug spawns land in.
	DebugSpawnSpread = 200
)

var (
	ErrUnknownMob  = errors.New("waves: unknown mob")
	ErrInvalidWave = errors.New("waves: wave must be at least 1")
	ErrNoTemplates = errors.New("waves: catalog has no mob templates")
)

// Phase is the director's state machine position.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseActive
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseActive:
		return "active"
	case PhaseCleared:
		return "cleared"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Count returns the number of mobs spawned for wave: max(3, 6+floor(1.2w)).
// Integer arithmetic keeps the floor exact.
func Count(wave int) int {
	n := BaseCount + wave*12/10
	if n < MinCount {
		return MinCount
	}
	return n
}

// Stats are the scaled attributes of a spawned mob.
type Stats struct {
	Health float64
	Damage float64
	Size   float64
	Speed  float64
	Mass   float64
}

// Scale applies rarity and wave scaling to a template.
func Scale(tpl catalog.MobTemplate, tier rarity.Tier, wave int) Stats {
	idx := float64(tier.Index())
	mult := tier.Multiplier()

	health := math.Max(6, math.Round(tpl.BaseHealth*mult*(1+float64(wave)*0.03)))
	damage := math.Max(1, math.Round(tpl.BaseDamage*mult))
	size := math.Max(8, math.Round(tpl.BaseSize*(1+idx*0.07)))
	speed := tpl.BaseSpeed
	if speed <= 0 {
		speed = math.Max(0.6, 1.6-idx*0.04)
	}
	speed = math.Max(0.2, speed)
	mass := math.Max(1, math.Round(size*(1+idx*0.06)))
	return Stats{Health: health, Damage: damage, Size: size, Speed: speed, Mass: mass}
}

// Hooks receive director transitions. Every field is optional.
type Hooks struct {
	WaveStarted func(wave, count int)
	WaveCleared func(wave int)
	MobSpawned  func(m *state.Mob)
}

// Director owns wave progression for a world.
type Director struct {
	Catalog *catalog.Catalog
	Table   rarity.SpawnTable
	RNG     *rand.Rand
	Frame   time.Duration
	Hooks   Hooks

	phase Phase
}

// NewDirector constructs a director. Nil inputs use built-in defaults.
func NewDirector(c *catalog.Catalog, rng *rand.Rand, frame time.Duration, hooks Hooks) *Director {
	if c == nil {
		c = catalog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Director{
		Catalog: c,
		Table:   rarity.DefaultSpawnTable(),
		RNG:     rng,
		Frame:   frame,
		Hooks:   hooks,
	}
}

// Phase reports the current state machine position.
func (d *Director) Phase() Phase {
	return d.phase
}

// Start replaces the mob set with a freshly generated wave.
func (d *Director) Start(w *state.World, wave int) error {
	if wave < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWave, wave)
	}
	if d.Catalog.MobCount() == 0 {
		return ErrNoTemplates
	}
	d.phase = PhaseSpawning
	w.Wave = wave
	w.Mobs = nil
	count := Count(wave)
	for i := 0; i < count; i++ {
		x := d.RNG.Float64() * w.Width
		y := d.RNG.Float64() * w.Height
		tpl, _ := d.Catalog.MobAt(d.RNG.Intn(d.Catalog.MobCount()))
		tier := d.Table.Pick(wave, d.RNG)
		if tier < tpl.BaseRarity {
			tier = tpl.BaseRarity
		}
		d.spawn(w, tpl, tier, x, y)
	}
	d.phase = PhaseActive
	if d.Hooks.WaveStarted != nil {
		d.Hooks.WaveStarted(wave, count)
	}
	return nil
}

// Advance clears and restarts the wave when no mob remains and the player
// is alive. It reports whether a new wave began; a failed start leaves the
// world on the cleared wave.
func (d *Director) Advance(w *state.World) (bool, error) {
	if w.Player == nil || w.Player.Dead {
		return false, nil
	}
	if w.AliveMobs() > 0 {
		return false, nil
	}
	d.phase = PhaseCleared
	if d.Hooks.WaveCleared != nil {
		d.Hooks.WaveCleared(w.Wave)
	}
	next := w.Wave + 1
	if next < 1 {
		next = 1
	}
	if err := d.Start(w, next); err != nil {
		return false, fmt.Errorf("start wave %d: %w", next, err)
	}
	return true, nil
}

// SpawnDebug adds one mob of the named type near the player. Tier indices
// outside the table are clamped.
func (d *Director) SpawnDebug(w *state.World, name string, tierIndex int) (*state.Mob, error) {
	tpl, ok := d.Catalog.Mob(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMob, name)
	}
	tier := rarity.Clamp(tierIndex)
	cx, cy := w.Width/2, w.Height/2
	if w.Player != nil {
		cx, cy = w.Player.X, w.Player.Y
	}
	x := clamp(cx+(d.RNG.Float64()*2-1)*DebugSpawnSpread, 0, w.Width)
	y := clamp(cy+(d.RNG.Float64()*2-1)*DebugSpawnSpread, 0, w.Height)
	return d.spawn(w, tpl, tier, x, y), nil
}

func (d *Director) spawn(w *state.World, tpl catalog.MobTemplate, tier rarity.Tier, x, y float64) *state.Mob {
	stats := Scale(tpl, tier, w.Wave)
	m := &state.Mob{
		ID:            w.NextID(),
		Type:          tpl.Name,
		Rarity:        tier,
		Body:          physics.Body{X: x, Y: y, Radius: stats.Size, Mass: stats.Mass},
		Speed:         stats.Speed,
		Health:        stats.Health,
		MaxHealth:     stats.Health,
		Damage:        stats.Damage,
		ContactDamage: tpl.ContactDamage,
		Drops:         append([]string(nil), tpl.Drops...),
		DropSpacing:   tpl.DropSpacing,
	}
	ai.Bootstrap(m, tpl, d.Frame)
	w.Mobs = append(w.Mobs, m)
	if d.Hooks.MobSpawned != nil {
		d.Hooks.MobSpawned(m)
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
