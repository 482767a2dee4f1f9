package ledger

import "fmt"

// Redis key pattern helpers
//
// All keys and Pub/Sub channels are namespaced by instance name so multiple
// tally instances can safely coexist on a single Redis server.
//
// Key pattern: tally:{instance_name}:{entity}
// Channel pattern: tally:{instance_name}:counter_events

// SeedKey returns the Redis key holding the entropy pool state.
// Pattern: tally:{instance_name}:seed
func SeedKey(instanceName string) string {
	return fmt.Sprintf("tally:%s:seed", instanceName)
}

// RoundKey returns the Redis key holding the execution round counter.
// Pattern: tally:{instance_name}:round
func RoundKey(instanceName string) string {
	return fmt.Sprintf("tally:%s:round", instanceName)
}

// CounterKey returns the Redis key for a counter hash.
// Pattern: tally:{instance_name}:counter:{counter_id}
func CounterKey(instanceName, counterID string) string {
	return fmt.Sprintf("tally:%s:counter:%s", instanceName, counterID)
}

// CounterKeyPrefix returns the key prefix shared by all counter hashes,
// used when scanning for identifiers.
func CounterKeyPrefix(instanceName string) string {
	return fmt.Sprintf("tally:%s:counter:", instanceName)
}

// CounterEventsChannel returns the Pub/Sub channel name for counter events.
// Pattern: tally:{instance_name}:counter_events
func CounterEventsChannel(instanceName string) string {
	return fmt.Sprintf("tally:%s:counter_events", instanceName)
}
