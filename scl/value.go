package scl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Spectre scale factors. Case matters: M is mega, m is milli.
var scaleExponents = map[string]int{
	"T": 12,
	"G": 9,
	"M": 6,
	"K": 3,
	"k": 3,
	"m": -3,
	"u": -6,
	"n": -9,
	"p": -12,
	"f": -15,
	"a": -18,
}

var valuePattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)([TGMKkmunpfa])?$`)

// ParseValue converts a numeric token printed by the simulator into a
// float64, applying the scale-factor suffix when one is present.
func ParseValue(token string) (float64, error) {
	m := valuePattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, fmt.Errorf("not a numeric value: %q", token)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", token, err)
	}

	if m[2] != "" {
		// Negative powers of ten are not exact floats; divide by the
		// positive power instead so 10u comes out as exactly 1e-05.
		if exp := scaleExponents[m[2]]; exp > 0 {
			v *= math.Pow10(exp)
		} else {
			v /= math.Pow10(-exp)
		}
	}
	return v, nil
}

// IsValue reports whether token would parse as a numeric value.
func IsValue(token string) bool {
	return valuePattern.MatchString(strings.TrimSpace(token))
}

// FormatValue renders a float the way a set expression expects it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
