// Package numfmt renders large game numbers with short tier suffixes (1.5k, 2.25m, ...).
package numfmt

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var suffixes = []string{"", "k", "m", "b", "t", "qa", "qi", "sx", "sp", "oc", "no", "dc"}

// Format renders num for display.
//
// Values under 1000 print as integers when within 0.1 of one, otherwise with one decimal.
// Larger values are scaled by powers of 1000 and printed with up to two decimals plus a
// suffix; beyond the last suffix the value falls back to scientific notation.
func Format(num float64) string {
	switch {
	case math.IsNaN(num):
		return "NaN"
	case num == 0:
		return "0"
	case num < 0:
		return "-" + Format(-num)
	case math.IsInf(num, 1):
		return "Infinity"
	}

	if num < 1000 {
		rounded := math.Floor(num + 0.5)
		if math.Abs(num-rounded) < 0.1 {
			return humanize.Comma(int64(rounded))
		}
		return toFixed(num, 1)
	}

	tier := tierOf(num)
	if tier >= len(suffixes) {
		return toExponential(num, 2)
	}

	scaled := num / math.Pow10(tier*3)
	s := toFixed(scaled, 2)
	if strings.HasSuffix(s, ".00") {
		s = strings.TrimSuffix(s, ".00")
	} else if len(s) >= 4 && s[len(s)-1] == '0' && s[len(s)-3] == '.' {
		s = s[:len(s)-1]
	}
	return s + suffixes[tier]
}

// tierOf returns floor(log10(num)/3) without trusting math.Log10 at exact powers of ten.
func tierOf(num float64) int {
	tier := int(math.Floor(math.Log10(num) / 3))
	for tier > 0 && num < math.Pow10(tier*3) {
		tier--
	}
	for num >= math.Pow10((tier+1)*3) {
		tier++
	}
	return tier
}

// toFixed prints a non-negative x with the given number of decimals, rounding the exact
// binary value half-up.
func toFixed(x float64, digits int) string {
	r := new(big.Rat).SetFloat64(x)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	// floor(r + 1/2)
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	n := new(big.Int).Quo(num, den)

	s := n.String()
	if digits == 0 {
		return s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	return s[:len(s)-digits] + "." + s[len(s)-digits:]
}

// toExponential mirrors the "1.23e+36" layout.
func toExponential(x float64, digits int) string {
	return strconv.FormatFloat(x, 'e', digits, 64)
}
