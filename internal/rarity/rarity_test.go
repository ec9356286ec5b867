package rarity

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierNamesAndColors(t *testing.T) {
	assert.Equal(t, 14, Count)
	assert.Equal(t, "Common", Common.String())
	assert.Equal(t, "Impracticality", Impracticality.String())
	assert.Equal(t, "#800000", Legendary.Color())
	assert.Equal(t, "", Impracticality.Color())
	assert.True(t, Impracticality.Rainbow())
	assert.False(t, Umbral.Rainbow())
	assert.Equal(t, "Tier(99)", Tier(99).String())
}

func TestMultiplierIsExponential(t *testing.T) {
	assert.Equal(t, 1.0, Common.Multiplier())
	assert.InDelta(t, 1.55, Unusual.Multiplier(), 1e-9)
	assert.InDelta(t, math.Pow(1.55, 4), Legendary.Multiplier(), 1e-9)
	assert.Equal(t, 1.0, Multiplier(-3))
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"epic", Epic, true},
		{"Mystitic", Mystitic, true},
		{"3", Epic, true},
		{"-2", Common, true},
		{"40", Impracticality, true},
		{"shiny", Common, false},
		{"", Common, false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestTierJSONUsesNames(t *testing.T) {
	data, err := json.Marshal(struct {
		R Tier `json:"r"`
	}{R: Radiant})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":"Radiant"}`, string(data))

	var decoded struct {
		R Tier `json:"r"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"r":"runic"}`), &decoded))
	assert.Equal(t, Runic, decoded.R)
}

func TestSpawnTableBuckets(t *testing.T) {
	table := DefaultSpawnTable()
	assert.Equal(t, 50.0, table.Weights(1)[0])
	assert.Equal(t, 50.0, table.Weights(3)[0])
	assert.Equal(t, 40.0, table.Weights(4)[0])
	assert.Equal(t, 30.0, table.Weights(9)[0])
	assert.Equal(t, 20.0, table.Weights(10)[0])
	assert.Equal(t, 20.0, table.Weights(250)[0])
	for _, bucket := range table.Buckets {
		assert.Len(t, bucket.Weights, Count)
	}
}

func TestPickWeighted(t *testing.T) {
	weights := []float64{1, 1}
	assert.Equal(t, Common, PickWeighted(weights, 0))
	assert.Equal(t, Common, PickWeighted(weights, 0.5))
	assert.Equal(t, Unusual, PickWeighted(weights, 0.75))
	assert.Equal(t, Unusual, PickWeighted([]float64{0, 3}, 0))
	assert.Equal(t, Common, PickWeighted(nil, 0.3))
	assert.Equal(t, Common, PickWeighted([]float64{-1, 0}, 0.3))
}

func TestPickFollowsDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	table := DefaultSpawnTable()
	counts := make(map[Tier]int)
	for i := 0; i < 10000; i++ {
		counts[table.Pick(1, rng)]++
	}
	// Common carries half of the early-wave weight.
	assert.InDelta(t, 0.5, float64(counts[Common])/10000, 0.03)
	assert.Greater(t, counts[Unusual], counts[Rare])
}
