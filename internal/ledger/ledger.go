// Package ledger persists the counter registry in Redis. Counters are stored
// as hashes keyed by identifier, the entropy pool state and the round
// counter live under instance-scoped keys, and every mutation publishes an
// event on the instance's counter-events channel.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/tally/pkg/registry"
)

// Hash fields of a counter record.
const (
	fieldValue = "value"
	fieldOwner = "owner"
)

// Ledger provides instance-scoped Redis operations for the counter registry.
// All keys and channels are automatically namespaced with the instance name.
// It implements registry.Store.
type Ledger struct {
	rdb          *redis.Client
	instanceName string
}

// New creates a ledger for the specified instance.
// Returns an error if instanceName is empty.
func New(redisOpts *redis.Options, instanceName string) (*Ledger, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Ledger{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (l *Ledger) Close() error {
	return l.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// InitSeed persists the initial pool state. SETNX makes the
// exactly-once-initialization check hold across processes: a second init
// fails with registry.ErrAlreadyInitialized even from another handle.
func (l *Ledger) InitSeed(ctx context.Context, seed []byte) error {
	set, err := l.rdb.SetNX(ctx, SeedKey(l.instanceName), seed, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to write pool state to Redis: %w", err)
	}
	if !set {
		return registry.ErrAlreadyInitialized
	}
	return nil
}

// LoadSeed returns the persisted pool state, or registry.ErrNotInitialized
// if the instance has never been initialized.
func (l *Ledger) LoadSeed(ctx context.Context) ([]byte, error) {
	seed, err := l.rdb.Get(ctx, SeedKey(l.instanceName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, registry.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pool state from Redis: %w", err)
	}
	return seed, nil
}

// GetValue returns a counter's value, or registry.ErrNotFound.
func (l *Ledger) GetValue(ctx context.Context, id string) (int32, error) {
	raw, err := l.rdb.HGet(ctx, CounterKey(l.instanceName, id), fieldValue).Result()
	if errors.Is(err, redis.Nil) {
		return 0, registry.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter from Redis: %w", err)
	}
	return parseValue(raw)
}

// GetOwner returns a counter's owner, or registry.ErrNotFound.
func (l *Ledger) GetOwner(ctx context.Context, id string) (registry.AccountID, error) {
	raw, err := l.rdb.HGet(ctx, CounterKey(l.instanceName, id), fieldOwner).Result()
	if errors.Is(err, redis.Nil) {
		return "", registry.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read counter from Redis: %w", err)
	}
	return registry.AccountID(raw), nil
}

// PutCounter writes the advanced pool state and a new counter record in one
// transaction, then publishes a created event.
func (l *Ledger) PutCounter(ctx context.Context, seed []byte, c registry.Counter) error {
	key := CounterKey(l.instanceName, c.ID)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SeedKey(l.instanceName), seed, 0)
		pipe.HSet(ctx, key,
			fieldValue, formatValue(c.Value),
			fieldOwner, string(c.Owner),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write counter to Redis: %w", err)
	}

	return l.publish(ctx, newEvent(EventCreated, c.ID, c.Value, c.Owner))
}

// PutValue writes the advanced pool state and the counter's new value in one
// transaction, then publishes an updated event.
func (l *Ledger) PutValue(ctx context.Context, seed []byte, id string, value int32) error {
	key := CounterKey(l.instanceName, id)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SeedKey(l.instanceName), seed, 0)
		pipe.HSet(ctx, key, fieldValue, formatValue(value))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update counter in Redis: %w", err)
	}

	return l.publish(ctx, newEvent(EventUpdated, id, value, ""))
}

// NextRound advances and returns the instance's execution round counter.
// INCR makes the sequence monotonically non-decreasing across processes.
func (l *Ledger) NextRound(ctx context.Context) (uint64, error) {
	round, err := l.rdb.Incr(ctx, RoundKey(l.instanceName)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance round counter: %w", err)
	}
	return uint64(round), nil
}

// GetCounter retrieves a full counter record, or registry.ErrNotFound.
func (l *Ledger) GetCounter(ctx context.Context, id string) (*registry.Counter, error) {
	hash, err := l.rdb.HGetAll(ctx, CounterKey(l.instanceName, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read counter from Redis: %w", err)
	}
	// HGetAll returns an empty map for non-existent keys.
	if len(hash) == 0 {
		return nil, registry.ErrNotFound
	}
	return hashToCounter(id, hash)
}

// ScanCounterIDs returns the identifiers of all counters whose id starts
// with the given prefix. An empty prefix matches every counter.
func (l *Ledger) ScanCounterIDs(ctx context.Context, prefix string) ([]string, error) {
	keyPrefix := CounterKeyPrefix(l.instanceName)
	pattern := keyPrefix + prefix + "*"

	var ids []string
	var cursor uint64
	for {
		keys, next, err := l.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan counters: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, strings.TrimPrefix(key, keyPrefix))
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}

// ListCounters retrieves every counter record for the instance, in no
// particular order.
func (l *Ledger) ListCounters(ctx context.Context) ([]*registry.Counter, error) {
	ids, err := l.ScanCounterIDs(ctx, "")
	if err != nil {
		return nil, err
	}

	counters := make([]*registry.Counter, 0, len(ids))
	for _, id := range ids {
		c, err := l.GetCounter(ctx, id)
		if err != nil {
			if registry.IsNotFound(err) {
				// Deleted between scan and fetch; counters have no delete
				// operation, but another key under the prefix might.
				continue
			}
			return nil, err
		}
		counters = append(counters, c)
	}
	return counters, nil
}

func hashToCounter(id string, hash map[string]string) (*registry.Counter, error) {
	value, err := parseValue(hash[fieldValue])
	if err != nil {
		return nil, err
	}
	return &registry.Counter{
		ID:    id,
		Value: value,
		Owner: registry.AccountID(hash[fieldOwner]),
	}, nil
}

func formatValue(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

func parseValue(raw string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter value %q: %w", raw, err)
	}
	return int32(v), nil
}
