// Package physics implements circle collision and mass-weighted knockback.
// Velocities are in units per tick.
package physics

import "math"

const (
	// Damping multiplies impulse-driven velocity each tick.
	Damping = 0.86
	// SnapThreshold zeroes velocity components below this magnitude.
	SnapThreshold = 0.01
	// CorrectionFactor scales the positional share of an overlap.
	CorrectionFactor = 0.6
)

// Body is the physical state shared by players and mobs.
type Body struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
}

func (b *Body) mass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}

// Params tunes a collision pairing.
type Params struct {
	Correction   float64
	MinImpulse   float64
	ImpulseScale float64
}

var (
	// MobMob resolves mob pairs.
	MobMob = Params{Correction: CorrectionFactor, MinImpulse: 0.6, ImpulseScale: 0.8}
	// PlayerMob resolves player contact, 1.6 times stronger than MobMob.
	PlayerMob = Params{Correction: CorrectionFactor, MinImpulse: 1.6, ImpulseScale: 0.8 * 1.6}
)

// Resolution reports what Separate applied.
type Resolution struct {
	Overlap float64
	NX      float64
	NY      float64
	MoveA   float64
	MoveB   float64
	Impulse float64
}

// Distance returns the euclidean distance between two points.
func Distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

// Overlaps reports whether two circles intersect.
func Overlaps(ax, ay, ar, bx, by, br float64) bool {
	return Distance(ax, ay, bx, by) < ar+br
}

// Separate pushes overlapping bodies apart along the centre axis, the
// lighter one moving further, and adds the matching impulse to both
// velocities. Coincident centres are skipped. The normal points from a to b.
func Separate(a, b *Body, p Params) (Resolution, bool) {
	if a == nil || b == nil {
		return Resolution{}, false
	}
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	minDist := a.Radius + b.Radius
	if dist <= 0 || dist >= minDist {
		return Resolution{}, false
	}
	overlap := minDist - dist
	nx := dx / dist
	ny := dy / dist
	am := a.mass()
	bm := b.mass()
	total := am + bm
	shareA := bm / total
	shareB := am / total

	moveA := overlap * shareA * p.Correction
	moveB := overlap * shareB * p.Correction
	a.X -= nx * moveA
	a.Y -= ny * moveA
	b.X += nx * moveB
	b.Y += ny * moveB

	impulse := math.Max(p.MinImpulse, overlap*p.ImpulseScale)
	a.VX -= nx * impulse * shareA
	a.VY -= ny * impulse * shareA
	b.VX += nx * impulse * shareB
	b.VY += ny * impulse * shareB

	return Resolution{Overlap: overlap, NX: nx, NY: ny, MoveA: moveA, MoveB: moveB, Impulse: impulse}, true
}

// Integrate applies velocity to position, then damps it.
func Integrate(b *Body) {
	if b == nil {
		return
	}
	b.X += b.VX
	b.Y += b.VY
	b.VX = damp(b.VX)
	b.VY = damp(b.VY)
}

func damp(v float64) float64 {
	v *= Damping
	if math.Abs(v) < SnapThreshold {
		return 0
	}
	return v
}

// Push adds a velocity of magnitude strength pointing from (fromX, fromY)
// towards the body.
func Push(b *Body, fromX, fromY, strength float64) {
	if b == nil {
		return
	}
	dx := b.X - fromX
	dy := b.Y - fromY
	d := math.Max(0.0001, math.Hypot(dx, dy))
	b.VX += dx / d * strength
	b.VY += dy / d * strength
}

// Clamp keeps the body's centre inside [radius, limit-radius] on both axes.
func Clamp(b *Body, width, height float64) {
	if b == nil {
		return
	}
	b.X = math.Max(b.Radius, math.Min(width-b.Radius, b.X))
	b.Y = math.Max(b.Radius, math.Min(height-b.Radius, b.Y))
}

// Direction returns the unit vector from (ax, ay) towards (bx, by) and the
// distance. A zero distance yields a zero vector.
func Direction(ax, ay, bx, by float64) (float64, float64, float64) {
	dx := bx - ax
	dy := by - ay
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0, 0
	}
	return dx / dist, dy / dist, dist
}
