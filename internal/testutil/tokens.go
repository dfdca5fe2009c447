// Package testutil provides deterministic helpers shared by sequencer
// tests and the conformance harness: a counting token generator and a
// scripted component whose capability subset is data-driven.
package testutil

import (
	"fmt"
	"sync"
)

// CountingGenerator produces "prefix-1", "prefix-2", ... deterministically
// and without exhausting. The same scenario with the same generator
// produces byte-identical journals.
//
// Thread-safety: safe for concurrent use via internal mutex.
type CountingGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewCountingGenerator creates a generator with the given prefix.
// If prefix is empty, "tok" is used.
func NewCountingGenerator(prefix string) *CountingGenerator {
	if prefix == "" {
		prefix = "tok"
	}
	return &CountingGenerator{prefix: prefix}
}

// Generate returns the next token. Implements sequencer.TokenGenerator.
func (g *CountingGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Count returns how many tokens have been generated.
func (g *CountingGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
