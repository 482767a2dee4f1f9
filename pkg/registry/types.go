package registry

import (
	"fmt"
	"regexp"
)

const (
	// IDLength is the length of a counter identifier: 16 pseudo-random bytes
	// rendered as lowercase hex with no separators.
	IDLength = 32

	// MinAccountLength and MaxAccountLength bound account identifiers.
	MinAccountLength = 2
	MaxAccountLength = 64
)

var (
	idPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

	// Account identifiers are lowercase alphanumeric segments separated by
	// a single '.', '_' or '-', e.g. "alice.testnet" or "app_7.prod".
	accountPattern = regexp.MustCompile(`^[a-z0-9]+([._-][a-z0-9]+)*$`)
)

// AccountID is a validated account reference used as a counter owner and as
// the caller identity on every mutating operation. Its raw bytes are mixed
// into the entropy pool on each reseed, so two distinct accounts never
// produce the same reseed input.
type AccountID string

// Validate checks the account grammar. Returns an error describing the first
// violated rule.
func (a AccountID) Validate() error {
	if len(a) < MinAccountLength {
		return fmt.Errorf("account ID too short: %d characters (min: %d)", len(a), MinAccountLength)
	}
	if len(a) > MaxAccountLength {
		return fmt.Errorf("account ID too long: %d characters (max: %d)", len(a), MaxAccountLength)
	}
	if !accountPattern.MatchString(string(a)) {
		return fmt.Errorf("invalid account ID %q: must be lowercase alphanumeric segments separated by '.', '_' or '-'", string(a))
	}
	return nil
}

// Counter is one registry record: a pseudo-randomly identified, owned,
// signed 32-bit value. The owner is immutable after creation and there is
// no deletion; a counter is live from creation onward.
type Counter struct {
	ID    string    `json:"id"`    // 32 lowercase hex characters
	Value int32     `json:"value"` // mutated in place by increment/decrement
	Owner AccountID `json:"owner"` // recorded at creation, never changed
}

// ValidID reports whether s has the shape of a counter identifier.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}
