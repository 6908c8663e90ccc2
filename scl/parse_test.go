package scl

import (
	"reflect"
	"testing"
)

func TestParsePairs(t *testing.T) {
	block := "((\"ac1\" \"ac\")\n    (\"dcop\" \"dc\")\n    (\"tran1\" \"tran\"))"

	want := []Pair{
		{"ac1", "ac"},
		{"dcop", "dc"},
		{"tran1", "tran"},
	}

	if got := ParsePairs(block); !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePairs() = %v, want %v", got, want)
	}
}

func TestParsePairsEmpty(t *testing.T) {
	if got := ParsePairs("nil"); got != nil {
		t.Errorf("ParsePairs(nil block) = %v, want nil", got)
	}
}

func TestParseNames(t *testing.T) {
	block := "((\"start\" \"0\")\n    (\"stop\" \"10u\")\n    (\"errpreset\" \"moderate\"))"

	want := []string{"start", "stop", "errpreset"}

	if got := ParseNames(block); !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNames() = %v, want %v", got, want)
	}
}

func TestParseQuoted(t *testing.T) {
	block := "(\"0\" \"vdd!\" \"in\" \"out\")"

	want := []string{"0", "vdd!", "in", "out"}

	if got := ParseQuoted(block); !reflect.DeepEqual(got, want) {
		t.Errorf("ParseQuoted() = %v, want %v", got, want)
	}
}

func TestResultVerdict(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  Verdict
	}{
		{"success sentinel", "t", VerdictOK},
		{"success after output", "loading circuit\nt", VerdictOK},
		{"failure sentinel", "nil", VerdictFail},
		{"failure with trailing blank", "nil\n\n", VerdictFail},
		{"data block", "((\"ac1\" \"ac\"))", VerdictNone},
		{"empty", "", VerdictNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultVerdict(tt.block); got != tt.want {
				t.Errorf("ResultVerdict(%q) = %v, want %v", tt.block, got, tt.want)
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{"1.6e-07", "1.6e-07"},
		{"some output\n2.5u\n", "2.5u"},
		{"\n\n", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LastLine(tt.block); got != tt.want {
			t.Errorf("LastLine(%q) = %q, want %q", tt.block, got, tt.want)
		}
	}
}
