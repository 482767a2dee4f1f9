// Package resolver turns short counter-identifier prefixes into full
// 32-character identifiers by scanning the ledger.
package resolver

import (
	"context"
	"fmt"

	"github.com/dyluth/tally/pkg/registry"
)

// MinShortIDLength is the minimum required length for short ID prefixes.
// Six hex characters balance usability with collision avoidance.
const MinShortIDLength = 6

// Scanner is the ledger capability the resolver needs.
type Scanner interface {
	ScanCounterIDs(ctx context.Context, prefix string) ([]string, error)
}

// ResolveCounterID resolves a short hex prefix to a full counter identifier.
// Returns the full identifier if exactly one match is found.
//
// Three cases:
//  1. Input is already a full identifier (32 hex chars) - returned as-is
//  2. Input is shorter than MinShortIDLength - validation error
//  3. Input is a prefix - scanned for matches; must match exactly one
func ResolveCounterID(ctx context.Context, scanner Scanner, shortID string) (string, error) {
	if registry.ValidID(shortID) {
		return shortID, nil
	}

	if len(shortID) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}

	matches, err := scanner.ScanCounterIDs(ctx, shortID)
	if err != nil {
		return "", fmt.Errorf("failed to search for counter: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// NotFoundError indicates no counters matched the short ID.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no counters found matching '%s'", e.ShortID)
}

// AmbiguousError indicates multiple counters matched the short ID.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d counters", e.ShortID, len(e.Matches))
}

// FormatAmbiguousError creates a user-friendly message listing the matches
// (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous short ID '%s' matches %d counters:\n", err.ShortID, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}
	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}
	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += "\nUse a longer prefix to uniquely identify the counter."
	return msg
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
