// Package hostenv adapts the process's surroundings to the registry's
// Environment interface: a per-call weak random seed from the operating
// system and the execution round captured at the start of the invocation.
package hostenv

import (
	"crypto/rand"
	"fmt"
)

// WeakSeedSize is the number of bytes drawn for each weak seed.
const WeakSeedSize = 32

// Env implements registry.Environment for a single invocation. The round is
// fixed when the invocation starts (one mutating operation runs per
// invocation, the way a block index is fixed for the duration of a call);
// the weak seed is drawn fresh on every read.
type Env struct {
	round uint64
}

// New creates an environment pinned to the given execution round.
func New(round uint64) *Env {
	return &Env{round: round}
}

// WeakSeed returns fresh bytes from the operating system's random source.
// The registry hashes this value before use and never trusts it alone, so
// quality matters less than availability; a failing source is unrecoverable
// and panics rather than silently degrading to a constant seed.
func (e *Env) WeakSeed() []byte {
	buf := make([]byte, WeakSeedSize)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("hostenv: system random source failed: %v", err))
	}
	return buf
}

// Round returns the execution round this invocation was pinned to.
func (e *Env) Round() uint64 {
	return e.round
}
