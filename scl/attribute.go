package scl

import (
	"fmt"
	"strings"
)

// AttributeKind tags the closed set of parameter attributes the simulator
// exposes.
type AttributeKind string

const (
	// KindValue is the numeric value of a parameter.
	KindValue AttributeKind = "value"
	// KindChoice is the enumerated string value of a non-numeric
	// parameter, e.g. errpreset.
	KindChoice AttributeKind = "choice"
	// KindMin is the lower bound of a numeric parameter.
	KindMin AttributeKind = "min"
	// KindMax is the upper bound of a numeric parameter.
	KindMax AttributeKind = "max"
	// KindUnits is the unit string of a parameter.
	KindUnits AttributeKind = "units"
)

// Attribute is one attribute of a simulator parameter, tagged by kind.
// Num is set for KindValue, KindMin and KindMax; Str for KindChoice and
// KindUnits.
type Attribute struct {
	Kind AttributeKind
	Num  float64
	Str  string
}

// Attributes is the attribute set of one parameter.
type Attributes []Attribute

func (as Attributes) find(k AttributeKind) (Attribute, bool) {
	for _, a := range as {
		if a.Kind == k {
			return a, true
		}
	}
	return Attribute{}, false
}

// Value returns the numeric value attribute if present.
func (as Attributes) Value() (float64, bool) {
	a, ok := as.find(KindValue)
	return a.Num, ok
}

// Choice returns the enumerated string value if present.
func (as Attributes) Choice() (string, bool) {
	a, ok := as.find(KindChoice)
	return a.Str, ok
}

// Min returns the lower bound if present.
func (as Attributes) Min() (float64, bool) {
	a, ok := as.find(KindMin)
	return a.Num, ok
}

// Max returns the upper bound if present.
func (as Attributes) Max() (float64, bool) {
	a, ok := as.find(KindMax)
	return a.Num, ok
}

// Units returns the unit string if present.
func (as Attributes) Units() (string, bool) {
	a, ok := as.find(KindUnits)
	return a.Str, ok
}

// ParseAttributes converts an attribute listing into tagged Attributes.
// The simulator prints one ("name" value) pair per attribute, quoting
// string values and leaving numbers bare. A pair outside the known set is
// an error: the caller must not guess at a meaning for it.
func ParseAttributes(block string) (Attributes, error) {
	var out Attributes
	for _, m := range attrPattern.FindAllStringSubmatch(block, -1) {
		name, raw := m[1], strings.TrimSpace(m[2])
		switch name {
		case "value":
			if IsValue(raw) {
				v, err := ParseValue(raw)
				if err != nil {
					return nil, fmt.Errorf("value attribute: %w", err)
				}
				out = append(out, Attribute{Kind: KindValue, Num: v})
			} else {
				out = append(out, Attribute{Kind: KindChoice, Str: raw})
			}
		case "min", "max":
			v, err := ParseValue(raw)
			if err != nil {
				return nil, fmt.Errorf("%s attribute: %w", name, err)
			}
			kind := KindMin
			if name == "max" {
				kind = KindMax
			}
			out = append(out, Attribute{Kind: kind, Num: v})
		case "units":
			out = append(out, Attribute{Kind: KindUnits, Str: raw})
		default:
			return nil, fmt.Errorf("unrecognized attribute %q", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no attributes in response")
	}
	return out, nil
}
