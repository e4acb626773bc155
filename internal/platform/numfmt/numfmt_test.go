package numfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.05, "0"},
		{0.5, "0.5"},
		{1, "1"},
		{12.34, "12.3"},
		{12.25, "12.3"},
		{41.95, "42"},
		{999, "999"},
		{999.5, "999.5"},
		{999.95, "1,000"},
		{1000, "1k"},
		{1500, "1.5k"},
		{1234, "1.23k"},
		{12000, "12k"},
		{999999, "1000k"},
		{1e6, "1m"},
		{1234567, "1.23m"},
		{2.5e9, "2.5b"},
		{1e12, "1t"},
		{1e15, "1qa"},
		{4.56e33, "4.56dc"},
		{1e36, "1.00e+36"},
		{1.234e40, "1.23e+40"},
		{-1500, "-1.5k"},
		{-0.5, "-0.5"},
		{math.Inf(1), "Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}

func TestTierOfPowersOfTen(t *testing.T) {
	for tier := 0; tier < 15; tier++ {
		x := math.Pow10(tier * 3)
		assert.Equal(t, tier, tierOf(x), "1e%d", tier*3)
		assert.Equal(t, tier, tierOf(x*999.999), "999.999e%d", tier*3)
	}
}

func TestToFixedRoundsHalfUp(t *testing.T) {
	assert.Equal(t, "1.50", toFixed(1.5, 2))
	assert.Equal(t, "0.1", toFixed(0.05, 1), "0.05 is stored slightly above the tie")
	assert.Equal(t, "2.3", toFixed(2.25, 1))
	assert.Equal(t, "1.0", toFixed(1.0, 1))
	assert.Equal(t, "0.01", toFixed(0.005, 2), "0.005 is stored slightly above the tie")
}
