package axelar_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/xchain-router/pkg/router/axelar"
	"github.com/argus-labs/xchain-router/pkg/testutils"
)

// word left-pads a small integer into a 32-byte ABI word.
func word(n uint64) []byte {
	w := make([]byte, 32)
	for i := 31; n > 0; i-- {
		w[i] = byte(n)
		n >>= 8
	}
	return w
}

// padRight pads b with zeros to a multiple of 32 bytes.
func padRight(b []byte) []byte {
	n := (len(b) + 31) / 32 * 32
	out := make([]byte, n)
	copy(out, b)
	return out
}

func TestSelector_MatchesCanonicalSignature(t *testing.T) {
	t.Parallel()

	want := crypto.Keccak256([]byte("callContract(string,string,bytes)"))[:4]
	got, err := axelar.Selector()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// The returned selector is a copy.
	got[0] ^= 0xff
	again, err := axelar.Selector()
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestEncodeCallContract_Moonbeam(t *testing.T) {
	t.Parallel()

	target := common.HexToAddress("0x0a")
	payload := []byte{0xAA, 0xBB}

	got, err := axelar.EncodeCallContract(payload, []byte("Moonbeam"), target)
	require.NoError(t, err)

	addrString := "0x000000000000000000000000000000000000000a"
	var want []byte
	want = append(want, crypto.Keccak256([]byte("callContract(string,string,bytes)"))[:4]...)
	want = append(want, word(0x60)...)
	want = append(want, word(0xa0)...)
	want = append(want, word(0x100)...)
	want = append(want, word(8)...)
	want = append(want, padRight([]byte("Moonbeam"))...)
	want = append(want, word(uint64(len(addrString)))...)
	want = append(want, padRight([]byte(addrString))...)
	want = append(want, word(2)...)
	want = append(want, padRight(payload)...)
	assert.Equal(t, hex.EncodeToString(want), hex.EncodeToString(got))

	call, err := axelar.DecodeCallContract(got)
	require.NoError(t, err)
	assert.Equal(t, "Moonbeam", call.DestinationChain)
	assert.Equal(t, addrString, call.DestinationContractAddress)
	assert.Equal(t, payload, call.Payload)

	again, err := axelar.EncodeCallContract(payload, []byte("Moonbeam"), target)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEncodeCallContract_AddressIsLowercase(t *testing.T) {
	t.Parallel()

	// Mixed case when rendered with the EIP-55 checksum.
	target := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NotEqual(t, strings.ToLower(target.Hex()), target.Hex())

	got, err := axelar.EncodeCallContract(nil, []byte("ethereum"), target)
	require.NoError(t, err)

	call, err := axelar.DecodeCallContract(got)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(target.Hex()), call.DestinationContractAddress)
	assert.Len(t, call.DestinationContractAddress, 42)
	assert.Empty(t, call.Payload)
}

func TestFormatContractAddress(t *testing.T) {
	t.Parallel()

	target := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", axelar.FormatContractAddress(target))
	assert.Equal(t, "0x0000000000000000000000000000000000000000", axelar.FormatContractAddress(common.Address{}))
}

func TestEncodeCallContract_RoundTrip(t *testing.T) {
	t.Parallel()
	r := testutils.NewRand(t)

	selector, err := axelar.Selector()
	require.NoError(t, err)

	for range 500 {
		chainID := testutils.RandUTF8(r, axelar.MaxChainIDSize)
		target := testutils.RandAddress(r)
		payload := testutils.RandBytes(r, r.IntN(300))

		got, err := axelar.EncodeCallContract(payload, chainID, target)
		require.NoError(t, err)
		assert.Equal(t, selector, got[:4])
		// selector + 3 offsets + 3 length words, everything else padded to 32 bytes.
		assert.Zero(t, (len(got)-4)%32)

		call, err := axelar.DecodeCallContract(got)
		require.NoError(t, err)
		assert.Equal(t, string(chainID), call.DestinationChain)
		assert.Equal(t, "0x"+hex.EncodeToString(target[:]), call.DestinationContractAddress)
		assert.Equal(t, payload, call.Payload)

		again, err := axelar.EncodeCallContract(payload, chainID, target)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestEncodeCallContract_InvalidUTF8(t *testing.T) {
	t.Parallel()
	r := testutils.NewRand(t)

	for range 200 {
		chainID := testutils.RandInvalidUTF8(r, axelar.MaxChainIDSize)
		require.False(t, utf8.Valid(chainID))

		var got []byte
		var err error
		assert.NotPanics(t, func() {
			got, err = axelar.EncodeCallContract([]byte{1, 2, 3}, chainID, testutils.RandAddress(r))
		})
		require.ErrorIs(t, err, axelar.ErrInvalidChainIDEncoding)
		assert.Nil(t, got)
	}
}

func TestEncodeCallContract_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	payload := []byte{1, 2, 3}
	chainID := []byte("Moonbeam")
	got, err := axelar.EncodeCallContract(payload, chainID, common.Address{})
	require.NoError(t, err)
	snapshot := bytes.Clone(got)

	payload[0] = 0xff
	chainID[0] = 'X'
	assert.Equal(t, snapshot, got)
}

func TestDecodeCallContract_RejectsForeignSelector(t *testing.T) {
	t.Parallel()

	_, err := axelar.DecodeCallContract([]byte{0xde, 0xad, 0xbe, 0xef, 0x00})
	require.ErrorIs(t, err, axelar.ErrSelectorMismatch)

	_, err = axelar.DecodeCallContract([]byte{0x01})
	require.ErrorIs(t, err, axelar.ErrSelectorMismatch)
}

func TestDecodeCallContract_RejectsTruncatedArguments(t *testing.T) {
	t.Parallel()

	got, err := axelar.EncodeCallContract([]byte{0xAA}, []byte("Moonbeam"), common.Address{})
	require.NoError(t, err)

	_, err = axelar.DecodeCallContract(got[:40])
	require.Error(t, err)
}

func FuzzEncodeCallContract(f *testing.F) {
	f.Add([]byte{0xAA, 0xBB}, []byte("Moonbeam"), []byte{0x0a})
	f.Add([]byte{}, []byte{0xff}, []byte{})
	f.Fuzz(func(t *testing.T, payload, chainID, addr []byte) {
		target := common.BytesToAddress(addr)
		got, err := axelar.EncodeCallContract(payload, chainID, target)
		if !utf8.Valid(chainID) {
			require.ErrorIs(t, err, axelar.ErrInvalidChainIDEncoding)
			return
		}
		require.NoError(t, err)

		call, err := axelar.DecodeCallContract(got)
		require.NoError(t, err)
		assert.Equal(t, string(chainID), call.DestinationChain)
		assert.Equal(t, axelar.FormatContractAddress(target), call.DestinationContractAddress)
		assert.True(t, bytes.Equal(payload, call.Payload))
	})
}
