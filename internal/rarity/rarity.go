package rarity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tier identifies a rarity level. Tiers are ordered from weakest to strongest
// and the zero value is Common.
type Tier int

const (
	Common Tier = iota
	Unusual
	Rare
	Epic
	Legendary
	Mythical
	Ultra
	Super
	Radiant
	Mystitic
	Runic
	Seraphic
	Umbral
	Impracticality
)

// Count is the number of defined tiers.
const Count = int(Impracticality) + 1

// MultiplierBase is the exponential base applied per tier index.
const MultiplierBase = 1.55

var names = [Count]string{
	"Common",
	"Unusual",
	"Rare",
	"Epic",
	"Legendary",
	"Mythical",
	"Ultra",
	"Super",
	"Radiant",
	"Mystitic",
	"Runic",
	"Seraphic",
	"Umbral",
	"Impracticality",
}

// Impracticality renders as a cycling rainbow, so it has no fixed color.
var colors = [Count]string{
	"#bfeecb",
	"#fff9c4",
	"#3b6cff",
	"#d6b3ff",
	"#800000",
	"#5fd6d1",
	"#ff4db8",
	"#00c9a7",
	"#ffd24d",
	"#30e0d0",
	"#2b2b7a",
	"#ffffff",
	"#000000",
	"",
}

// All returns every tier in ascending order.
func All() []Tier {
	tiers := make([]Tier, Count)
	for i := range tiers {
		tiers[i] = Tier(i)
	}
	return tiers
}

// Valid reports whether the tier is inside the defined range.
func (t Tier) Valid() bool {
	return t >= Common && int(t) < Count
}

// Index returns the tier's position in the ordered table.
func (t Tier) Index() int {
	return int(t)
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return names[t]
}

// Color returns the display color for the tier. Rainbow tiers return "".
func (t Tier) Color() string {
	if !t.Valid() {
		return ""
	}
	return colors[t]
}

// Rainbow reports whether renderers should cycle hues for this tier.
func (t Tier) Rainbow() bool {
	return t == Impracticality
}

// Multiplier returns the stat multiplier for the tier.
func (t Tier) Multiplier() float64 {
	return Multiplier(int(t))
}

// Multiplier returns MultiplierBase^index, treating negative indices as zero.
func Multiplier(index int) float64 {
	if index < 0 {
		index = 0
	}
	return math.Pow(MultiplierBase, float64(index))
}

// Clamp converts an arbitrary index into a valid tier.
func Clamp(index int) Tier {
	if index < 0 {
		return Common
	}
	if index >= Count {
		return Impracticality
	}
	return Tier(index)
}

// Parse resolves a tier from either its name (case-insensitive) or its
// numeric index. Numeric values are clamped into range.
func Parse(value string) (Tier, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Common, false
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return Clamp(n), true
	}
	for i, name := range names {
		if strings.EqualFold(name, trimmed) {
			return Tier(i), true
		}
	}
	return Common, false
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("rarity: invalid tier %d", int(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText accepts names or numeric indices.
func (t *Tier) UnmarshalText(data []byte) error {
	parsed, ok := Parse(string(data))
	if !ok {
		return fmt.Errorf("rarity: unknown tier %q", string(data))
	}
	*t = parsed
	return nil
}
