package evm

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rotisserie/eris"
)

const (
	wordLen = 32
	// FeeValuesEncodedLen is the fixed size of marshaled FeeValues.
	FeeValuesEncodedLen = 3 * wordLen
	// DomainEncodedLen is the fixed size of a marshaled Domain.
	DomainEncodedLen = common.AddressLength + common.HashLength + FeeValuesEncodedLen
)

var (
	ErrGasLimitOverflow     = errors.New("gas limit does not fit in uint64")
	ErrZeroGasLimit         = errors.New("gas limit cannot be zero")
	ErrZeroTargetContract   = errors.New("target contract address cannot be zero")
	ErrInvalidEncodedLength = errors.New("invalid encoded domain length")
)

// FeeValues are attached to every transaction sent to the target contract.
type FeeValues struct {
	Value    uint256.Int
	GasPrice uint256.Int
	GasLimit uint256.Int
}

// Domain describes the contract an EVM router calls and what it is expected to be.
type Domain struct {
	TargetContractAddress common.Address
	// TargetContractHash is the keccak256 hash of the deployed code at TargetContractAddress.
	TargetContractHash common.Hash
	FeeValues          FeeValues
}

// Validate performs the configuration-time checks for a Domain.
func (d Domain) Validate() error {
	if d.TargetContractAddress == (common.Address{}) {
		return ErrZeroTargetContract
	}
	if !d.FeeValues.GasLimit.IsUint64() {
		return ErrGasLimitOverflow
	}
	if d.FeeValues.GasLimit.IsZero() {
		return ErrZeroGasLimit
	}
	return nil
}

func (d Domain) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, DomainEncodedLen)
	out = append(out, d.TargetContractAddress[:]...)
	out = append(out, d.TargetContractHash[:]...)
	for _, v := range []uint256.Int{d.FeeValues.Value, d.FeeValues.GasPrice, d.FeeValues.GasLimit} {
		word := v.Bytes32()
		out = append(out, word[:]...)
	}
	return out, nil
}

func (d *Domain) UnmarshalBinary(data []byte) error {
	if len(data) != DomainEncodedLen {
		return eris.Wrapf(ErrInvalidEncodedLength, "got %d bytes, want %d", len(data), DomainEncodedLen)
	}
	copy(d.TargetContractAddress[:], data[:common.AddressLength])
	data = data[common.AddressLength:]
	copy(d.TargetContractHash[:], data[:common.HashLength])
	data = data[common.HashLength:]
	d.FeeValues.Value.SetBytes32(data[:wordLen])
	d.FeeValues.GasPrice.SetBytes32(data[wordLen : 2*wordLen])
	d.FeeValues.GasLimit.SetBytes32(data[2*wordLen:])
	return nil
}
