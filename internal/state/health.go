package state

import "math"

// ClampHealth bounds health to [0, max]. NaN collapses to zero.
func ClampHealth(health, max float64) float64 {
	if math.IsNaN(health) || health < 0 {
		return 0
	}
	if max > 0 && health > max {
		return max
	}
	return health
}
