package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparateSplitsByMass(t *testing.T) {
	a := &Body{X: 0, Y: 0, Radius: 10, Mass: 3}
	b := &Body{X: 15, Y: 0, Radius: 10, Mass: 1}

	res, ok := Separate(a, b, MobMob)
	require.True(t, ok)
	assert.InDelta(t, 5, res.Overlap, 1e-9)

	// The heavier body moves a third as far as the lighter one.
	assert.InDelta(t, 5*0.25*0.6, res.MoveA, 1e-9)
	assert.InDelta(t, 5*0.75*0.6, res.MoveB, 1e-9)
	assert.InDelta(t, res.Overlap*CorrectionFactor, res.MoveA+res.MoveB, 1e-9)
	assert.InDelta(t, -0.75, a.X, 1e-9)
	assert.InDelta(t, 17.25, b.X, 1e-9)
}

func TestSeparateFullCorrectionClosesGap(t *testing.T) {
	a := &Body{X: 0, Y: 0, Radius: 10, Mass: 2}
	b := &Body{X: 0, Y: 12, Radius: 10, Mass: 5}

	res, ok := Separate(a, b, Params{Correction: 1, MinImpulse: 0, ImpulseScale: 0})
	require.True(t, ok)
	assert.InDelta(t, res.Overlap, res.MoveA+res.MoveB, 1e-9)
	assert.InDelta(t, 20, Distance(a.X, a.Y, b.X, b.Y), 1e-9)
}

func TestSeparateImpulseIsAdditive(t *testing.T) {
	a := &Body{X: 0, Y: 0, Radius: 10, Mass: 1, VX: 2}
	b := &Body{X: 19, Y: 0, Radius: 10, Mass: 1}

	res, ok := Separate(a, b, MobMob)
	require.True(t, ok)
	// Overlap 1 scales to 0.8, above the 0.6 floor.
	assert.InDelta(t, 0.8, res.Impulse, 1e-9)
	assert.InDelta(t, 2-0.4, a.VX, 1e-9)
	assert.InDelta(t, 0.4, b.VX, 1e-9)

	c := &Body{X: 0, Y: 0, Radius: 10, Mass: 1}
	d := &Body{X: 19.9, Y: 0, Radius: 10, Mass: 1}
	res, ok = Separate(c, d, MobMob)
	require.True(t, ok)
	assert.InDelta(t, 0.6, res.Impulse, 1e-9)
}

func TestSeparateSkipsCoincidentAndApart(t *testing.T) {
	a := &Body{X: 5, Y: 5, Radius: 10, Mass: 1}
	b := &Body{X: 5, Y: 5, Radius: 10, Mass: 1}
	_, ok := Separate(a, b, PlayerMob)
	assert.False(t, ok)
	assert.Equal(t, 5.0, a.X)
	assert.Equal(t, 0.0, b.VX)

	c := &Body{X: 0, Y: 0, Radius: 1}
	d := &Body{X: 2, Y: 0, Radius: 1}
	_, ok = Separate(c, d, PlayerMob)
	assert.False(t, ok)
}

func TestPlayerMobIsStronger(t *testing.T) {
	assert.InDelta(t, MobMob.ImpulseScale*1.6, PlayerMob.ImpulseScale, 1e-9)
	assert.InDelta(t, MobMob.MinImpulse, 0.6, 1e-9)
	assert.Greater(t, PlayerMob.MinImpulse, MobMob.MinImpulse)
}

func TestIntegrateDampsAndSnaps(t *testing.T) {
	b := &Body{VX: 1, VY: 0.011}
	Integrate(b)
	assert.InDelta(t, 1, b.X, 1e-9)
	assert.InDelta(t, 0.86, b.VX, 1e-9)
	assert.Equal(t, 0.0, b.VY)

	for i := 0; i < 200; i++ {
		Integrate(b)
	}
	assert.Equal(t, 0.0, b.VX)
	// The geometric series bounds total travel at v/(1-damping).
	assert.Less(t, b.X, 1+0.86/(1-Damping))
}

func TestPushAndDirection(t *testing.T) {
	b := &Body{X: 10, Y: 0}
	Push(b, 0, 0, 6)
	assert.InDelta(t, 6, b.VX, 1e-9)
	assert.InDelta(t, 0, b.VY, 1e-9)

	nx, ny, dist := Direction(0, 0, 3, 4)
	assert.InDelta(t, 0.6, nx, 1e-9)
	assert.InDelta(t, 0.8, ny, 1e-9)
	assert.InDelta(t, 5, dist, 1e-9)

	nx, ny, dist = Direction(1, 1, 1, 1)
	assert.Zero(t, nx)
	assert.Zero(t, ny)
	assert.Zero(t, dist)
	assert.False(t, math.IsNaN(nx))
}

func TestClamp(t *testing.T) {
	b := &Body{X: -5, Y: 700, Radius: 15}
	Clamp(b, 800, 600)
	assert.Equal(t, 15.0, b.X)
	assert.Equal(t, 585.0, b.Y)
}
