// Package scl builds and parses Spectre Control Language exchanges.
//
// SCL is the s-expression command syntax the Spectre simulator accepts on
// its interactive prompt. This package is the pure text layer: it knows how
// to render each supported command and how to scrape the simulator's
// printed replies back into Go values. It never talks to a process; session
// handling lives in the root package.
//
// # Commands
//
// Builder functions return the exact expression for one operation, e.g.
// ListAnalysis, CreateAnalysis, SetCircuitValue. Balanced reports whether
// an expression's parentheses close properly; the simulator hangs on
// unbalanced input rather than rejecting it, so callers must check before
// sending.
//
// # Responses
//
// List replies are lines of ("name" "value") pairs; ParsePairs, ParseNames
// and ParseQuoted extract them. Mutations answer with a bare sentinel line,
// t on success and nil on failure, classified by ResultVerdict. Scalar
// queries print the value on the final line; ParseValue converts it,
// applying Spectre scale-factor suffixes ("160n" is 1.6e-7).
//
// # Attributes
//
// Parameter attributes form a small closed set: numeric value, min, max, a
// units string, and the enumerated string choice of a non-numeric
// parameter. ParseAttributes tags each as an Attribute and rejects
// response pairs outside the set.
package scl
