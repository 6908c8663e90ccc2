package scl

import (
	"math"
	"testing"
)

func TestParseValueSuffixes(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"2T", 2e12},
		{"4G", 4e9},
		{"3M", 3e6},
		{"1K", 1e3},
		{"10k", 1e4},
		{"5m", 5e-3},
		{"2u", 2e-6},
		{"160n", 1.6e-7},
		{"3.3p", 3.3e-12},
		{"7f", 7e-15},
		{"9a", 9e-18},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.token)
		if err != nil {
			t.Errorf("ParseValue(%q) error: %v", tt.token, err)
			continue
		}
		if math.Abs(got-tt.want) > math.Abs(tt.want)*1e-12 {
			t.Errorf("ParseValue(%q) = %g, want %g", tt.token, got, tt.want)
		}
	}
}

func TestParseValuePlain(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"0", 0},
		{"1.5", 1.5},
		{"-2.5", -2.5},
		{"+12", 12},
		{".5u", 5e-7},
		{"1e-3", 1e-3},
		{"2.5E6", 2.5e6},
		{"-1.2e-12", -1.2e-12},
		{"  42  ", 42}, // surrounding whitespace tolerated
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.token)
		if err != nil {
			t.Errorf("ParseValue(%q) error: %v", tt.token, err)
			continue
		}
		if tt.want == 0 {
			if got != 0 {
				t.Errorf("ParseValue(%q) = %g, want 0", tt.token, got)
			}
			continue
		}
		if math.Abs(got-tt.want) > math.Abs(tt.want)*1e-12 {
			t.Errorf("ParseValue(%q) = %g, want %g", tt.token, got, tt.want)
		}
	}
}

func TestParseValueRejects(t *testing.T) {
	tokens := []string{
		"",
		"abc",
		"nil",
		"1x",
		"1 n",  // suffix must be adjacent
		"1meg", // SPICE spelling, not a Spectre scale factor
		"u",
		"--1",
		"1.5uF", // trailing unit letters are not values
	}

	for _, token := range tokens {
		if _, err := ParseValue(token); err == nil {
			t.Errorf("ParseValue(%q) should fail", token)
		}
		if IsValue(token) {
			t.Errorf("IsValue(%q) = true, want false", token)
		}
	}
}

func TestParseValueCaseSensitive(t *testing.T) {
	mega, err := ParseValue("1M")
	if err != nil {
		t.Fatalf("ParseValue(1M) error: %v", err)
	}
	milli, err := ParseValue("1m")
	if err != nil {
		t.Fatalf("ParseValue(1m) error: %v", err)
	}

	if mega != 1e6 {
		t.Errorf("ParseValue(1M) = %g, want 1e6", mega)
	}
	if milli != 1e-3 {
		t.Errorf("ParseValue(1m) = %g, want 1e-3", milli)
	}
}

func TestFormatValueRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -2.5e-6, 1e12, 3.14159, 1.6e-7}

	for _, v := range values {
		got, err := ParseValue(FormatValue(v))
		if err != nil {
			t.Errorf("ParseValue(FormatValue(%g)) error: %v", v, err)
			continue
		}
		if got != v {
			t.Errorf("round trip of %g = %g", v, got)
		}
	}
}
