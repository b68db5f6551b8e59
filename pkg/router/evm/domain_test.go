package evm_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-labs/xchain-router/pkg/router/evm"
	"github.com/argus-labs/xchain-router/pkg/testutils"
)

func TestDomain_Binary(t *testing.T) {
	t.Parallel()
	r := testutils.NewRand(t)

	for range 100 {
		var value, gasPrice, gasLimit uint256.Int
		value.SetBytes(testutils.RandBytes(r, 32))
		gasPrice.SetBytes(testutils.RandBytes(r, 16))
		gasLimit.SetUint64(r.Uint64())

		domain := evm.Domain{
			TargetContractAddress: testutils.RandAddress(r),
			TargetContractHash:    common.BytesToHash(testutils.RandBytes(r, 32)),
			FeeValues:             evm.FeeValues{Value: value, GasPrice: gasPrice, GasLimit: gasLimit},
		}

		data, err := domain.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, data, evm.DomainEncodedLen)

		var decoded evm.Domain
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.Equal(t, domain, decoded)
	}
}

func TestDomain_UnmarshalBinary_InvalidLength(t *testing.T) {
	t.Parallel()

	var domain evm.Domain
	err := domain.UnmarshalBinary(make([]byte, evm.DomainEncodedLen+1))
	require.ErrorIs(t, err, evm.ErrInvalidEncodedLength)
}

func TestDomain_Validate(t *testing.T) {
	t.Parallel()

	valid := evm.Domain{
		TargetContractAddress: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		FeeValues:             evm.FeeValues{GasLimit: *uint256.NewInt(100_000)},
	}
	require.NoError(t, valid.Validate())

	zeroTarget := valid
	zeroTarget.TargetContractAddress = common.Address{}
	require.ErrorIs(t, zeroTarget.Validate(), evm.ErrZeroTargetContract)

	zeroGas := valid
	zeroGas.FeeValues.GasLimit = uint256.Int{}
	require.ErrorIs(t, zeroGas.Validate(), evm.ErrZeroGasLimit)

	overflow := valid
	overflow.FeeValues.GasLimit = *new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	require.ErrorIs(t, overflow.Validate(), evm.ErrGasLimitOverflow)
}
