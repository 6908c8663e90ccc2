package scl

import (
	"regexp"
	"strings"
)

var (
	pairPattern   = regexp.MustCompile(`\("([^"]+)"\s+"([^"]+)"\)`)
	namePattern   = regexp.MustCompile(`\("([^"]+)"\s+".*?"\)`)
	quotedPattern = regexp.MustCompile(`"(.*?)"`)
	attrPattern   = regexp.MustCompile(`\("([^"]+)"\s+"?([^")]*)"?\)`)
)

// Pair is one ("name" "value") element of a list response.
type Pair struct {
	Name  string
	Value string
}

// ParsePairs extracts every quoted name/value pair from a response block.
func ParsePairs(block string) []Pair {
	var pairs []Pair
	for _, m := range pairPattern.FindAllStringSubmatch(block, -1) {
		pairs = append(pairs, Pair{Name: m[1], Value: m[2]})
	}
	return pairs
}

// ParseNames extracts the name of every pair in a response block.
func ParseNames(block string) []string {
	var names []string
	for _, m := range namePattern.FindAllStringSubmatch(block, -1) {
		names = append(names, m[1])
	}
	return names
}

// ParseQuoted extracts every quoted string in a response block.
func ParseQuoted(block string) []string {
	var out []string
	for _, m := range quotedPattern.FindAllStringSubmatch(block, -1) {
		out = append(out, m[1])
	}
	return out
}

// Verdict classifies the sentinel the simulator prints after a command.
type Verdict int

const (
	// VerdictNone means the block carries data rather than a sentinel.
	VerdictNone Verdict = iota
	// VerdictOK is the success sentinel t.
	VerdictOK
	// VerdictFail is the failure sentinel nil, printed when a named
	// entity does not exist or a mutation was refused.
	VerdictFail
)

// ResultVerdict inspects the final non-empty line of a response block.
func ResultVerdict(block string) Verdict {
	switch LastLine(block) {
	case "t":
		return VerdictOK
	case "nil":
		return VerdictFail
	}
	return VerdictNone
}

// LastLine returns the final non-empty line of a block, trimmed.
func LastLine(block string) string {
	lines := strings.Split(block, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
