package axelar_test

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/xchain-router/pkg/router/axelar"
	"github.com/argus-labs/xchain-router/pkg/testutils"
)

func TestNewDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		chainID []byte
		wantErr error
	}{
		{name: "valid", chainID: []byte("Moonbeam")},
		{name: "max length", chainID: []byte(strings.Repeat("a", axelar.MaxChainIDSize))},
		{name: "empty", chainID: nil, wantErr: axelar.ErrEmptyChainID},
		{name: "too long", chainID: []byte(strings.Repeat("a", axelar.MaxChainIDSize+1)), wantErr: axelar.ErrChainIDTooLong},
		// UTF-8 validity is checked when encoding, not here.
		{name: "invalid utf8", chainID: []byte{0xff, 0xfe}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dest, err := axelar.NewDestination(tc.chainID, common.HexToAddress("0x0a"))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.chainID, dest.ChainID())
			assert.Equal(t, common.HexToAddress("0x0a"), dest.Contract())
		})
	}
}

func TestNewDestination_CopiesChainID(t *testing.T) {
	t.Parallel()

	chainID := []byte("Moonbeam")
	dest, err := axelar.NewDestination(chainID, common.Address{})
	require.NoError(t, err)

	chainID[0] = 'X'
	assert.Equal(t, []byte("Moonbeam"), dest.ChainID())

	out := dest.ChainID()
	out[0] = 'Y'
	assert.Equal(t, []byte("Moonbeam"), dest.ChainID())
}

func TestParseDestination(t *testing.T) {
	t.Parallel()

	dest, err := axelar.ParseDestination("Moonbeam", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), dest.Contract())

	_, err = axelar.ParseDestination("Moonbeam", "0x1234")
	require.ErrorIs(t, err, axelar.ErrInvalidContractAddress)

	_, err = axelar.ParseDestination("Moonbeam", "not-an-address")
	require.ErrorIs(t, err, axelar.ErrInvalidContractAddress)

	_, err = axelar.ParseDestination(strings.Repeat("x", 17), "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.ErrorIs(t, err, axelar.ErrChainIDTooLong)
}

func TestDestination_Binary(t *testing.T) {
	t.Parallel()
	r := testutils.NewRand(t)

	for range 100 {
		chainID := testutils.RandBytes(r, 1+r.IntN(axelar.MaxChainIDSize))
		dest, err := axelar.NewDestination(chainID, testutils.RandAddress(r))
		require.NoError(t, err)

		data, err := dest.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, data, axelar.DestinationEncodedLen)

		var decoded axelar.Destination
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.True(t, dest.Equal(decoded))
	}
}

func TestDestination_UnmarshalBinary_Invalid(t *testing.T) {
	t.Parallel()

	var dest axelar.Destination
	err := dest.UnmarshalBinary(make([]byte, axelar.DestinationEncodedLen-1))
	require.ErrorIs(t, err, axelar.ErrInvalidEncodedLength)

	data := make([]byte, axelar.DestinationEncodedLen)
	data[0] = axelar.MaxChainIDSize + 1
	err = dest.UnmarshalBinary(data)
	require.ErrorIs(t, err, axelar.ErrChainIDTooLong)
}

func TestDestination_UnmarshalBinary_NonZeroPadding(t *testing.T) {
	t.Parallel()

	dest, err := axelar.NewDestination([]byte("Moonbeam"), common.HexToAddress("0x0a"))
	require.NoError(t, err)
	data, err := dest.MarshalBinary()
	require.NoError(t, err)

	// A byte past the chain identifier but inside its padded field.
	data[1+len("Moonbeam")] = 'x'

	var decoded axelar.Destination
	require.ErrorIs(t, decoded.UnmarshalBinary(data), axelar.ErrNonZeroPadding)
	assert.True(t, decoded.IsZero(), "destination is untouched on error")
}
