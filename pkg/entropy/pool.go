// Package entropy implements the deterministic entropy pool that seeds every
// random draw in the tally registry. The pool holds a single 32-byte secret
// state. Fresh external inputs are folded into the state by hashing, and
// one-shot pseudo-random streams are expanded from it with ChaCha20.
//
// The scheme is reproducible by design: the same initial weak seed and the
// same ordered sequence of reseed inputs always produce bit-identical
// streams. That makes it testable and replayable, and it also means the
// output is NOT cryptographically secure randomness. A host that can predict
// the weak seed, combined with attacker-chosen caller bytes (both are mixed
// into every reseed), gains influence over every draw. Treat the output as
// deterministic pseudo-randomness, never as a CSPRNG.
package entropy

import (
	"crypto/sha256"
	"fmt"
)

// StateSize is the size of the pool's secret state in bytes.
const StateSize = sha256.Size

// Pool holds the 32-byte secret state from which all randomness is derived.
// The state is never exposed through the public API; it leaves the pool only
// via MarshalBinary, which exists so the registry can persist it.
//
// A Pool value is immutable. Reseed returns a successor pool rather than
// mutating in place, so a caller can derive the next state, commit it to
// storage, and only then adopt it.
type Pool struct {
	state [StateSize]byte
}

// New creates a pool from the host environment's weak random seed.
// The seed is hashed on entry so a directly-predictable raw seed never
// becomes the state verbatim. Any byte sequence is accepted, including
// low-entropy input; hashing is a hedge, not an unpredictability guarantee.
func New(weakSeed []byte) *Pool {
	return &Pool{state: sha256.Sum256(weakSeed)}
}

// Reseed folds fresh external inputs into the pool and returns the successor
// pool. The new state is SHA-256 over the current state followed by each
// input in the order given. The input order is a contract: reseeding with the
// same inputs in the same order is what makes the scheme reproducible.
// The receiver is left unchanged.
func (p *Pool) Reseed(fresh ...[]byte) *Pool {
	h := sha256.New()
	h.Write(p.state[:])
	for _, in := range fresh {
		h.Write(in)
	}
	next := &Pool{}
	h.Sum(next.state[:0])
	return next
}

// Stream spawns a one-shot pseudo-random stream from the current state.
// Two pools with the same state produce bit-identical streams. Streams are
// meant to be consumed once, within a single operation, and then dropped;
// never persist or reuse one across operations.
func (p *Pool) Stream() *Stream {
	return newStream(p.state)
}

// MarshalBinary returns the raw 32-byte state. It exists solely so the
// registry can persist the pool; never return its output to an external
// caller. Implements encoding.BinaryMarshaler.
func (p *Pool) MarshalBinary() ([]byte, error) {
	out := make([]byte, StateSize)
	copy(out, p.state[:])
	return out, nil
}

// UnmarshalBinary restores a pool from a previously marshalled state.
// Implements encoding.BinaryUnmarshaler.
func (p *Pool) UnmarshalBinary(data []byte) error {
	if len(data) != StateSize {
		return fmt.Errorf("invalid pool state: expected %d bytes, got %d", StateSize, len(data))
	}
	copy(p.state[:], data)
	return nil
}

// String redacts the secret state so the pool cannot leak through logging
// or formatted errors.
func (p *Pool) String() string {
	return "entropy.Pool(secret)"
}
