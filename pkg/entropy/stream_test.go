package entropy

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroPool returns a pool whose state is 32 zero bytes, so stream output can
// be checked against the well-known ChaCha20 zero-key keystream.
func zeroPool(t *testing.T) *Pool {
	t.Helper()
	var p Pool
	require.NoError(t, p.UnmarshalBinary(make([]byte, StateSize)))
	return &p
}

func TestStreamKeystream(t *testing.T) {
	t.Run("matches the ChaCha20 zero-key keystream", func(t *testing.T) {
		s := zeroPool(t).Stream()
		assert.Equal(t, "76b8e0ada0f13d90405d6ae55386bd28", hex.EncodeToString(s.NextBytes(16)))
	})

	t.Run("position advances across calls", func(t *testing.T) {
		s := zeroPool(t).Stream()
		all := zeroPool(t).Stream().NextBytes(32)
		first := s.NextBytes(16)
		second := s.NextBytes(16)
		assert.Equal(t, all, append(first, second...))
	})

	t.Run("identical states produce bit-identical streams", func(t *testing.T) {
		p := New([]byte("determinism"))
		a := p.Stream().NextBytes(256)
		b := p.Stream().NextBytes(256)
		assert.True(t, bytes.Equal(a, b))
	})

	t.Run("different states diverge", func(t *testing.T) {
		a := New([]byte("one")).Stream().NextBytes(64)
		b := New([]byte("two")).Stream().NextBytes(64)
		assert.False(t, bytes.Equal(a, b))
	})
}

func TestStreamIntegers(t *testing.T) {
	t.Run("NextUint32 is little-endian", func(t *testing.T) {
		s := zeroPool(t).Stream()
		// 76 b8 e0 ad little-endian.
		assert.Equal(t, uint32(0xade0b876), s.NextUint32())
	})

	t.Run("NextInt32 covers the full signed range", func(t *testing.T) {
		s := zeroPool(t).Stream()
		s.NextBytes(16)
		// Byte 16 onward of the zero-key keystream reinterpreted as int32.
		assert.Equal(t, int32(-1206267203), s.NextInt32())
	})
}

func TestUniformInt32(t *testing.T) {
	t.Run("reference draws from the zero-key stream", func(t *testing.T) {
		// First zero-key word is rejected for span 256; the second is
		// accepted. Pinning the value guards the rejection construction.
		assert.Equal(t, int32(144), zeroPool(t).Stream().UniformInt32(0, 256))
		assert.Equal(t, int32(66), zeroPool(t).Stream().UniformInt32(10, 110))
	})

	t.Run("stays within the half-open range", func(t *testing.T) {
		s := New([]byte("range check")).Stream()
		for i := 0; i < 10000; i++ {
			v := s.UniformInt32(0, 256)
			assert.GreaterOrEqual(t, v, int32(0))
			assert.Less(t, v, int32(256))
		}
	})

	t.Run("handles negative bounds", func(t *testing.T) {
		s := New([]byte("negative")).Stream()
		for i := 0; i < 1000; i++ {
			v := s.UniformInt32(-50, 50)
			assert.GreaterOrEqual(t, v, int32(-50))
			assert.Less(t, v, int32(50))
		}
	})

	t.Run("single-value range always returns it", func(t *testing.T) {
		s := New([]byte("narrow")).Stream()
		for i := 0; i < 100; i++ {
			assert.Equal(t, int32(7), s.UniformInt32(7, 8))
		}
	})

	t.Run("every value in a small range is reachable", func(t *testing.T) {
		s := New([]byte("coverage")).Stream()
		seen := make(map[int32]bool)
		for i := 0; i < 500; i++ {
			seen[s.UniformInt32(0, 8)] = true
		}
		assert.Len(t, seen, 8)
	})

	t.Run("panics on an empty range", func(t *testing.T) {
		s := New([]byte("empty")).Stream()
		assert.Panics(t, func() { s.UniformInt32(5, 5) })
		assert.Panics(t, func() { s.UniformInt32(9, 3) })
	})
}
