package state

import "time"

// OffscreenMargin is how far past the arena edge a projectile may travel
// before it is discarded.
const OffscreenMargin = 50

// World is the complete mutable simulation state. The simulation loop owns
// it and passes it explicitly to every subsystem.
type World struct {
	Width  float64
	Height float64

	Player      *Player
	Mobs        []*Mob
	Projectiles []*Projectile
	// Strays holds mob projectiles whose owner has died.
	Strays []*Projectile
	Drops  []*Drop

	Wave int
	Tick uint64
	Now  time.Duration

	lastID uint64
}

// NewWorld creates a world with the player at the arena centre.
func NewWorld(width, height float64) *World {
	return &World{
		Width:  width,
		Height: height,
		Player: NewPlayer(width/2, height/2),
		Wave:   1,
	}
}

// NextID allocates a unique entity identifier.
func (w *World) NextID() uint64 {
	w.lastID++
	return w.lastID
}

// Offscreen reports whether (x, y) lies beyond the despawn margin.
func (w *World) Offscreen(x, y float64) bool {
	return x < -OffscreenMargin || x > w.Width+OffscreenMargin ||
		y < -OffscreenMargin || y > w.Height+OffscreenMargin
}

// AliveMobs counts mobs still in the active set.
func (w *World) AliveMobs() int {
	n := 0
	for _, m := range w.Mobs {
		if m != nil && !m.Dead {
			n++
		}
	}
	return n
}

// CompactMobs removes dead mobs, detaching their in-flight projectiles into
// Strays so they keep moving.
func (w *World) CompactMobs() {
	kept := w.Mobs[:0]
	for _, m := range w.Mobs {
		if m == nil {
			continue
		}
		if m.Dead {
			w.Strays = append(w.Strays, m.Projectiles...)
			m.Projectiles = nil
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(w.Mobs); i++ {
		w.Mobs[i] = nil
	}
	w.Mobs = kept
}

// ClearEntities removes every mob, projectile and drop.
func (w *World) ClearEntities() {
	w.Mobs = nil
	w.Projectiles = nil
	w.Strays = nil
	w.Drops = nil
}
