// Package axiom defines the closed set of causal categories a fragment is
// secretly built around.
package axiom

import (
	"errors"
	"strings"
)

// Axiom is one of the three causal categories.
type Axiom string

const (
	// Fate represents inevitable predetermination.
	Fate Axiom = "Fate"
	// Choice represents a critical, preventable decision.
	Choice Axiom = "Choice"
	// Chance represents a random, unpreventable external occurrence.
	Chance Axiom = "Chance"
)

// ErrUnknownAxiom indicates a value outside the fixed axiom set.
var ErrUnknownAxiom = errors.New("unknown axiom")

// ErrEmptyAxiom indicates a missing axiom value.
var ErrEmptyAxiom = errors.New("axiom is required")

// All returns the fixed axiom set in declaration order.
func All() []Axiom {
	return []Axiom{Fate, Choice, Chance}
}

// String returns the canonical axiom name.
func (a Axiom) String() string {
	return string(a)
}

// Valid reports whether a is a member of the fixed set.
func (a Axiom) Valid() bool {
	switch a {
	case Fate, Choice, Chance:
		return true
	}
	return false
}

// Parse canonicalizes a player-supplied axiom name. Matching is
// case-insensitive and ignores surrounding whitespace.
func Parse(value string) (Axiom, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyAxiom
	}
	switch strings.ToLower(value) {
	case "fate":
		return Fate, nil
	case "choice":
		return Choice, nil
	case "chance":
		return Chance, nil
	}
	return "", ErrUnknownAxiom
}

// picker yields pseudo-random integers in [0, n).
type picker interface {
	Intn(n int) int
}

// Pick draws an axiom uniformly at random, independent of history.
func Pick(src picker) Axiom {
	all := All()
	return all[src.Intn(len(all))]
}
