// Package random provides cryptographic seed generation and an injectable
// pseudo-random source.
//
// Seeds come from crypto/rand so independently started processes draw
// independent streams. Components that need randomness accept a Source so
// tests can substitute a deterministic implementation.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source yields pseudo-random integers. *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSource returns a pseudo-random source seeded from crypto/rand.
func NewSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(seed)), nil
}
