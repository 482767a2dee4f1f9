package entropy

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"golang.org/x/crypto/chacha20"
)

// Stream is a deterministic pseudo-random byte stream expanded from a pool
// state. The state is the ChaCha20 key; the nonce is all zeros and the
// stream position starts at zero, so identical states always yield identical
// streams. A Stream has no secret of its own beyond the cipher it wraps and
// is intended to be consumed once and discarded.
type Stream struct {
	cipher *chacha20.Cipher
}

func newStream(state [StateSize]byte) *Stream {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(state[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed at compile time.
		panic(fmt.Sprintf("entropy: chacha20 init: %v", err))
	}
	return &Stream{cipher: c}
}

// NextBytes returns the next n pseudo-random bytes, advancing the stream.
func (s *Stream) NextBytes(n int) []byte {
	buf := make([]byte, n)
	s.cipher.XORKeyStream(buf, buf)
	return buf
}

// NextUint32 returns the next 4 stream bytes as a little-endian uint32.
func (s *Stream) NextUint32() uint32 {
	return binary.LittleEndian.Uint32(s.NextBytes(4))
}

// NextInt32 returns a pseudo-random int32 over the full signed range.
func (s *Stream) NextInt32() int32 {
	return int32(s.NextUint32())
}

// UniformInt32 returns a pseudo-random integer uniformly distributed over
// the half-open range [lo, hi). Modulo bias is avoided with a widening
// multiply plus rejection: a draw is rejected when the low half of the
// 64-bit product falls outside the zone in which every output value is
// reachable an equal number of times. Panics if lo >= hi.
func (s *Stream) UniformInt32(lo, hi int32) int32 {
	if lo >= hi {
		panic(fmt.Sprintf("entropy: UniformInt32 range [%d, %d) is empty", lo, hi))
	}
	// Wrapping subtraction: correct even for ranges spanning zero.
	span := uint32(hi) - uint32(lo)
	zone := span<<uint(bits.LeadingZeros32(span)) - 1
	for {
		prod := uint64(s.NextUint32()) * uint64(span)
		if uint32(prod) <= zone {
			return lo + int32(uint32(prod>>32))
		}
	}
}
