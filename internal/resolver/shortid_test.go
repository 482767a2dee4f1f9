package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScanner serves canned identifiers by prefix.
type fakeScanner struct {
	ids []string
	err error
}

func (f *fakeScanner) ScanCounterIDs(ctx context.Context, prefix string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matches []string
	for _, id := range f.ids {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

func TestResolveCounterID(t *testing.T) {
	ctx := context.Background()
	scanner := &fakeScanner{ids: []string{
		"67b75d2d1be8186127d3c3284d2ce27e",
		"67b7456789abcdef0123456789abcdef",
		"9aedf4c93311fe8aa593f406e0d2afba",
	}}

	t.Run("full identifier passes through without a scan", func(t *testing.T) {
		id, err := ResolveCounterID(ctx, &fakeScanner{err: errors.New("must not scan")},
			"67b75d2d1be8186127d3c3284d2ce27e")
		require.NoError(t, err)
		assert.Equal(t, "67b75d2d1be8186127d3c3284d2ce27e", id)
	})

	t.Run("unique prefix resolves", func(t *testing.T) {
		id, err := ResolveCounterID(ctx, scanner, "9aedf4")
		require.NoError(t, err)
		assert.Equal(t, "9aedf4c93311fe8aa593f406e0d2afba", id)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ResolveCounterID(ctx, scanner, "9aed")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 6 characters")
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ResolveCounterID(ctx, scanner, "ffffff")
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("longer prefix disambiguates", func(t *testing.T) {
		id, err := ResolveCounterID(ctx, scanner, "67b745")
		require.NoError(t, err)
		assert.Equal(t, "67b7456789abcdef0123456789abcdef", id)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		amb := &fakeScanner{ids: []string{
			"bbbbbb6789abcdef0123456789abcdef",
			"bbbbbb0789abcdef0123456789abcdef",
		}}
		_, err := ResolveCounterID(ctx, amb, "bbbbbb")
		require.True(t, IsAmbiguousError(err))

		var ambErr *AmbiguousError
		require.ErrorAs(t, err, &ambErr)
		msg := FormatAmbiguousError(ambErr)
		assert.Contains(t, msg, "matches 2 counters")
		assert.Contains(t, msg, "longer prefix")
	})

	t.Run("scanner failure", func(t *testing.T) {
		_, err := ResolveCounterID(ctx, &fakeScanner{err: errors.New("redis down")}, "9aedf4")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search")
	})
}
