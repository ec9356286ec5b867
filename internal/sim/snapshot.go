package sim

import (
	"github.com/exotic24-7/zephyrax.io/internal/state"
)

// PlayerView is the player state exposed to non-simulation callers.
type PlayerView struct {
	X             float64                `json:"x"`
	Y             float64                `json:"y"`
	VX            float64                `json:"vx"`
	VY            float64                `json:"vy"`
	Radius        float64                `json:"radius"`
	Health        float64                `json:"health"`
	MaxHealth     float64                `json:"maxHealth"`
	OrbitDistance float64                `json:"orbitDistance"`
	Expanded      bool                   `json:"expanded"`
	Main          state.Row              `json:"main"`
	Swap          state.Row              `json:"swap"`
	Inventory     []state.InventoryEntry `json:"inventory,omitempty"`
}

// MobView describes a mob for rendering.
type MobView struct {
	ID        uint64  `json:"id"`
	Type      string  `json:"type"`
	Behavior  string  `json:"behavior"`
	Rarity    string  `json:"rarity"`
	Color     string  `json:"color,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
}

// Snapshot captures the state exposed to non-simulation callers. It shares
// no memory with the engine.
type Snapshot struct {
	Tick        uint64             `json:"tick"`
	TimeMillis  int64              `json:"timeMillis"`
	Wave        int                `json:"wave"`
	Dead        bool               `json:"dead"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Player      PlayerView         `json:"player"`
	Petals      []state.Petal      `json:"petals,omitempty"`
	Mobs        []MobView          `json:"mobs,omitempty"`
	Projectiles []state.Projectile `json:"projectiles,omitempty"`
	Drops       []state.Drop       `json:"drops,omitempty"`
}

// Snapshot copies the observable state.
func (e *Engine) Snapshot() Snapshot {
	w := e.world
	p := w.Player
	snap := Snapshot{
		Tick:       w.Tick,
		TimeMillis: w.Now.Milliseconds(),
		Wave:       w.Wave,
		Dead:       p.Dead,
		Width:      w.Width,
		Height:     w.Height,
		Player: PlayerView{
			X:             p.X,
			Y:             p.Y,
			VX:            p.VX,
			VY:            p.VY,
			Radius:        p.Radius,
			Health:        p.Health,
			MaxHealth:     p.MaxHealth,
			OrbitDistance: p.OrbitDistance,
			Expanded:      p.Expanded,
			Main:          p.Main.Clone(),
			Swap:          p.Swap.Clone(),
			Inventory:     p.Inventory.Clone().Entries,
		},
		Petals: p.Petals(),
	}
	for _, m := range w.Mobs {
		if m == nil || m.Dead {
			continue
		}
		snap.Mobs = append(snap.Mobs, MobView{
			ID:        m.ID,
			Type:      m.Type,
			Behavior:  m.Behavior.String(),
			Rarity:    m.Rarity.String(),
			Color:     m.Rarity.Color(),
			X:         m.X,
			Y:         m.Y,
			Radius:    m.Radius,
			Health:    m.Health,
			MaxHealth: m.MaxHealth,
		})
	}
	for _, proj := range e.Projectiles() {
		if proj != nil {
			snap.Projectiles = append(snap.Projectiles, *proj)
		}
	}
	for _, d := range w.Drops {
		if d != nil {
			snap.Drops = append(snap.Drops, *d)
		}
	}
	return snap
}
