// Package registry implements a registry of named counters whose values
// change by pseudo-random amounts derived from continuously mixed
// environmental entropy.
//
// Every mutating operation follows the same reseed-then-draw sequence: fold
// fresh external inputs into the entropy pool in a fixed order (current
// secret state, weak seed, big-endian round counter, caller identity), spawn
// a one-shot stream from the new state, consume exactly the randomness the
// operation needs, and discard the stream. The sequence of "random" outputs
// is therefore a pure deterministic function of the external input sequence
// and prior state — reproducible under replay, and explicitly not
// cryptographically secure (see package entropy).
package registry

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/dyluth/tally/pkg/entropy"
)

// deltaBound is the exclusive upper bound on increment/decrement amounts.
const deltaBound = 256

// Environment is the host environment the registry consumes. Implementations
// provide the per-call weak random seed and the execution round counter;
// the caller identity is passed explicitly on each operation.
//
// Injecting a synthetic environment makes every draw reproducible in tests.
type Environment interface {
	// WeakSeed returns a per-call, possibly low-entropy random value. It is
	// hashed before use and never trusted alone for unpredictability.
	WeakSeed() []byte

	// Round returns a monotonically non-decreasing counter of execution
	// rounds. It is mixed into the pool as 8 big-endian bytes.
	Round() uint64
}

// Registry maps counter identifiers to values and owners, reseeding the
// entropy pool before every random draw and enforcing ownership on
// mutations.
//
// The reseed-then-draw sequence is not safe under interleaved access, so the
// registry serializes mutating operations behind a single mutex. Within one
// operation the advanced pool state is committed to the store before the
// in-memory pool is replaced; a failed store write leaves both the store and
// the pool on the prior state.
type Registry struct {
	mu    sync.Mutex
	env   Environment
	store Store
	pool  *entropy.Pool
}

// New creates a registry handle over the given environment and store. The
// handle starts uninitialized; call Init exactly once for a fresh store, or
// Open to attach to a previously initialized one.
func New(env Environment, store Store) *Registry {
	return &Registry{env: env, store: store}
}

// Init initializes the entropy pool from the environment's weak seed and
// persists it. Calling Init on an already-initialized registry (or store)
// fails with ErrAlreadyInitialized; it never silently resets state.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		return ErrAlreadyInitialized
	}

	pool := entropy.New(r.env.WeakSeed())
	seed, err := pool.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal pool state: %w", err)
	}
	if err := r.store.InitSeed(ctx, seed); err != nil {
		return err
	}

	r.pool = pool
	return nil
}

// Open attaches to an already-initialized store by loading its persisted
// pool state. Fails with ErrNotInitialized if Init has never run against the
// store, and with ErrAlreadyInitialized if this handle already holds a pool.
func (r *Registry) Open(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		return ErrAlreadyInitialized
	}

	seed, err := r.store.LoadSeed(ctx)
	if err != nil {
		return err
	}
	pool := &entropy.Pool{}
	if err := pool.UnmarshalBinary(seed); err != nil {
		return fmt.Errorf("failed to restore pool state: %w", err)
	}

	r.pool = pool
	return nil
}

// GetCounter returns a counter's current value. Pure read: no entropy
// interaction and no side effects. Fails with ErrNotFound for an unknown
// identifier.
func (r *Registry) GetCounter(ctx context.Context, id string) (int32, error) {
	return r.store.GetValue(ctx, id)
}

// GetOwner returns a counter's owner. Same lookup contract as GetCounter.
func (r *Registry) GetOwner(ctx context.Context, id string) (AccountID, error) {
	return r.store.GetOwner(ctx, id)
}

// CreateCounter creates a counter owned by the caller and returns its
// identifier. The pool is reseeded, 16 stream bytes become the identifier
// and the next 4 become the full-range initial value. Every call succeeds
// and allocates a fresh record; there is no rate limiting and no duplicate
// check beyond the 128-bit identifier space itself.
func (r *Registry) CreateCounter(ctx context.Context, caller AccountID) (string, error) {
	if err := caller.Validate(); err != nil {
		return "", fmt.Errorf("invalid caller: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pool == nil {
		return "", ErrNotInitialized
	}

	pool := r.reseed(caller)
	stream := pool.Stream()
	id := hex.EncodeToString(stream.NextBytes(16))
	value := stream.NextInt32()

	seed, err := pool.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to marshal pool state: %w", err)
	}
	record := Counter{ID: id, Value: value, Owner: caller}
	if err := r.store.PutCounter(ctx, seed, record); err != nil {
		return "", fmt.Errorf("failed to persist counter: %w", err)
	}

	r.pool = pool
	return id, nil
}

// Increment adds a pseudo-random amount in [0, 256) to a counter owned by
// the caller. Fails with ErrNotFound for an unknown identifier and with
// ErrNotOwner when the caller is not the recorded owner; both checks run
// before the reseed, so a failed call leaves all state unchanged.
func (r *Registry) Increment(ctx context.Context, caller AccountID, id string) error {
	return r.bump(ctx, caller, id, +1)
}

// Decrement subtracts a pseudo-random amount in [0, 256) from a counter
// owned by the caller. Same contract as Increment.
func (r *Registry) Decrement(ctx context.Context, caller AccountID, id string) error {
	return r.bump(ctx, caller, id, -1)
}

func (r *Registry) bump(ctx context.Context, caller AccountID, id string, sign int32) error {
	if err := caller.Validate(); err != nil {
		return fmt.Errorf("invalid caller: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pool == nil {
		return ErrNotInitialized
	}

	value, err := r.store.GetValue(ctx, id)
	if err != nil {
		return err
	}
	owner, err := r.store.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}

	pool := r.reseed(caller)
	delta := pool.Stream().UniformInt32(0, deltaBound)

	// Arithmetic wraps with two's-complement int32 semantics; crossing
	// MaxInt32 or MinInt32 is not an error.
	value += sign * delta

	seed, err := pool.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal pool state: %w", err)
	}
	if err := r.store.PutValue(ctx, seed, id, value); err != nil {
		return fmt.Errorf("failed to persist counter value: %w", err)
	}

	r.pool = pool
	return nil
}

// reseed derives the successor pool from the fixed entropy input sequence:
// current secret state, weak seed, round counter (8 big-endian bytes),
// caller identity bytes. The order is a contract shared with every other
// implementation of this scheme; changing it breaks reproducibility.
func (r *Registry) reseed(caller AccountID) *entropy.Pool {
	var round [8]byte
	binary.BigEndian.PutUint64(round[:], r.env.Round())
	return r.pool.Reseed(r.env.WeakSeed(), round[:], []byte(caller))
}
