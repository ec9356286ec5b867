package rarity

import "math/rand"

// Bucket holds the spawn weights used from MinWave onward.
type Bucket struct {
	MinWave int
	Weights []float64
}

// SpawnTable selects rarity weights by wave number. Buckets must be ordered
// by ascending MinWave.
type SpawnTable struct {
	Buckets []Bucket
}

// DefaultSpawnTable returns the four-bucket table for waves 1-3, 4-6, 7-9
// and 10+.
func DefaultSpawnTable() SpawnTable {
	return SpawnTable{Buckets: []Bucket{
		{MinWave: 1, Weights: []float64{50, 25, 12, 6, 3, 2, 1, 0.5, 0.3, 0.2, 0.1, 0.05, 0.01, 0.01}},
		{MinWave: 4, Weights: []float64{40, 25, 15, 8, 5, 4, 2, 1, 0.5, 0.3, 0.2, 0.1, 0.05, 0.05}},
		{MinWave: 7, Weights: []float64{30, 20, 20, 10, 8, 6, 3, 2, 1, 0.5, 0.3, 0.2, 0.1, 0.1}},
		{MinWave: 10, Weights: []float64{20, 15, 20, 10, 10, 8, 5, 4, 2, 1, 0.5, 0.3, 0.2, 0.2}},
	}}
}

// Weights returns a copy of the weights that apply to the wave.
func (t SpawnTable) Weights(wave int) []float64 {
	if len(t.Buckets) == 0 {
		return nil
	}
	selected := t.Buckets[0]
	for _, bucket := range t.Buckets[1:] {
		if wave >= bucket.MinWave {
			selected = bucket
		}
	}
	return append([]float64(nil), selected.Weights...)
}

// Pick draws a tier for the wave using rng.
func (t SpawnTable) Pick(wave int, rng *rand.Rand) Tier {
	var roll float64
	if rng != nil {
		roll = rng.Float64()
	} else {
		roll = rand.Float64()
	}
	return PickWeighted(t.Weights(wave), roll)
}

// PickWeighted maps roll in [0,1) onto the weights after normalizing them.
// Negative weights count as zero. The last tier absorbs rounding overflow.
func PickWeighted(weights []float64, roll float64) Tier {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return Common
	}
	r := roll * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return Clamp(i)
		}
	}
	return Clamp(len(weights) - 1)
}
