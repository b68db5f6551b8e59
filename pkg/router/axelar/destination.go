package axelar

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rotisserie/eris"
)

// MaxChainIDSize bounds the length of an Axelar EVM chain name.
const MaxChainIDSize = 16

// DestinationEncodedLen is the fixed size of a marshaled Destination:
// length prefix, chain identifier padded to MaxChainIDSize, contract address.
const DestinationEncodedLen = 1 + MaxChainIDSize + common.AddressLength

var (
	ErrEmptyChainID           = errors.New("chain identifier cannot be empty")
	ErrChainIDTooLong         = errors.New("chain identifier exceeds maximum size")
	ErrInvalidContractAddress = errors.New("invalid contract address")
	ErrInvalidEncodedLength   = errors.New("invalid encoded destination length")
	ErrNonZeroPadding         = errors.New("non-zero chain identifier padding")
)

// Destination identifies the remote domain: the Axelar chain name and the contract receiving the payload.
// It is immutable once created.
type Destination struct {
	chainID  []byte
	contract common.Address
}

func NewDestination(chainID []byte, contract common.Address) (Destination, error) {
	if len(chainID) == 0 {
		return Destination{}, ErrEmptyChainID
	}
	if len(chainID) > MaxChainIDSize {
		return Destination{}, eris.Wrapf(ErrChainIDTooLong, "got %d bytes, max %d", len(chainID), MaxChainIDSize)
	}
	return Destination{chainID: bytes.Clone(chainID), contract: contract}, nil
}

// ParseDestination builds a Destination from a chain name and a hex encoded contract address.
func ParseDestination(chainID, contractHex string) (Destination, error) {
	if !common.IsHexAddress(contractHex) {
		return Destination{}, eris.Wrapf(ErrInvalidContractAddress, "%q", contractHex)
	}
	return NewDestination([]byte(chainID), common.HexToAddress(contractHex))
}

// ChainID returns a copy of the chain identifier bytes.
func (d Destination) ChainID() []byte {
	return bytes.Clone(d.chainID)
}

func (d Destination) Contract() common.Address {
	return d.contract
}

func (d Destination) IsZero() bool {
	return len(d.chainID) == 0 && d.contract == (common.Address{})
}

func (d Destination) Equal(other Destination) bool {
	return bytes.Equal(d.chainID, other.chainID) && d.contract == other.contract
}

func (d Destination) MarshalBinary() ([]byte, error) {
	if len(d.chainID) > MaxChainIDSize {
		return nil, ErrChainIDTooLong
	}
	out := make([]byte, DestinationEncodedLen)
	out[0] = byte(len(d.chainID))
	copy(out[1:1+MaxChainIDSize], d.chainID)
	copy(out[1+MaxChainIDSize:], d.contract[:])
	return out, nil
}

func (d *Destination) UnmarshalBinary(data []byte) error {
	if len(data) != DestinationEncodedLen {
		return eris.Wrapf(ErrInvalidEncodedLength, "got %d bytes, want %d", len(data), DestinationEncodedLen)
	}
	n := int(data[0])
	if n > MaxChainIDSize {
		return eris.Wrapf(ErrChainIDTooLong, "encoded length %d", n)
	}
	for _, b := range data[1+n : 1+MaxChainIDSize] {
		if b != 0 {
			return ErrNonZeroPadding
		}
	}
	var chainID []byte
	if n > 0 {
		chainID = bytes.Clone(data[1 : 1+n])
	}
	d.chainID = chainID
	copy(d.contract[:], data[1+MaxChainIDSize:])
	return nil
}
