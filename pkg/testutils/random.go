package testutils

import (
	"math/rand/v2"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"

	"github.com/argus-labs/xchain-router/pkg/router"
)

// RandBytes returns n random bytes.
func RandBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}
	return b
}

// RandAddress returns a random 20-byte EVM address.
func RandAddress(r *rand.Rand) common.Address {
	var addr common.Address
	copy(addr[:], RandBytes(r, common.AddressLength))
	return addr
}

// RandAccountID returns a random local account identifier.
func RandAccountID(r *rand.Rand) router.AccountID {
	var id router.AccountID
	copy(id[:], RandBytes(r, router.AccountIDLength))
	return id
}

// RandUTF8 returns a valid UTF-8 string of at most maxBytes bytes. Multi-byte runes are mixed in so
// byte length and rune count differ.
func RandUTF8(r *rand.Rand, maxBytes int) []byte {
	runes := []rune{'a', 'Z', '0', '-', ' ', 'é', 'ß', '中', '🌙'}
	target := r.IntN(maxBytes + 1)
	out := make([]byte, 0, target)
	for {
		c := runes[r.IntN(len(runes))]
		if len(out)+utf8.RuneLen(c) > target {
			return out
		}
		out = utf8.AppendRune(out, c)
	}
}

// RandInvalidUTF8 returns a byte sequence of at most maxBytes (>= 1) bytes that is not valid UTF-8.
func RandInvalidUTF8(r *rand.Rand, maxBytes int) []byte {
	out := RandUTF8(r, maxBytes-1)
	// None of these bytes can appear anywhere in valid UTF-8.
	invalid := []byte{0xff, 0xfe, 0xc0, 0xc1}
	pos := r.IntN(len(out) + 1)
	out = append(out[:pos], append([]byte{invalid[r.IntN(len(invalid))]}, out[pos:]...)...)
	return out
}
