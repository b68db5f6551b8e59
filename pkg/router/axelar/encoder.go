package axelar

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Protocol constants shared with the Axelar gateway's callContract entry point:
// https://github.com/axelarnetwork/axelar-cgp-solidity/blob/v4.3.2/contracts/AxelarGateway.sol#L78
const (
	FunctionName                    = "callContract"
	ParamDestinationChain           = "destinationChain"
	ParamDestinationContractAddress = "destinationContractAddress"
	ParamPayload                    = "payload"
)

var (
	ErrFunctionDescriptorUnavailable = errors.New("cannot retrieve Axelar contract function")
	ErrInvalidChainIDEncoding        = errors.New("target chain conversion error")
	ErrArgumentEncodingFailed        = errors.New("cannot encode input for Axelar contract function")
	ErrSelectorMismatch              = errors.New("call data does not target Axelar callContract")
)

var gatewayABIJSON = fmt.Sprintf(`[
	{
		"type": "function",
		"name": %q,
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": %q, "type": "string"},
			{"name": %q, "type": "string"},
			{"name": %q, "type": "bytes"}
		],
		"outputs": []
	}
]`, FunctionName, ParamDestinationChain, ParamDestinationContractAddress, ParamPayload)

// gatewayABI is parsed once. A parse failure is kept and reported by every encode call instead of
// panicking at init.
var gatewayABI, gatewayABIErr = abi.JSON(strings.NewReader(gatewayABIJSON)) //nolint:gochecknoglobals // fixed descriptor

// CallContract holds the decoded arguments of a callContract invocation.
type CallContract struct {
	DestinationChain           string
	DestinationContractAddress string
	Payload                    []byte
}

func callContractMethod() (abi.Method, error) {
	if gatewayABIErr != nil {
		return abi.Method{}, fmt.Errorf("%w: %v", ErrFunctionDescriptorUnavailable, gatewayABIErr)
	}
	method, ok := gatewayABI.Methods[FunctionName]
	if !ok {
		return abi.Method{}, ErrFunctionDescriptorUnavailable
	}
	return method, nil
}

// Selector returns the 4-byte function selector of callContract(string,string,bytes).
func Selector() ([]byte, error) {
	method, err := callContractMethod()
	if err != nil {
		return nil, err
	}
	return bytes.Clone(method.ID), nil
}

// EncodeCallContract encodes payload into call data for the Axelar gateway, which in turn calls the
// contract at target on chainID with payload as its argument.
//
// The contract address is rendered as "0x" followed by 40 lowercase hex characters. It must not be
// EIP-55 checksummed: the remote side compares the string byte for byte.
func EncodeCallContract(payload, chainID []byte, target common.Address) ([]byte, error) {
	method, err := callContractMethod()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(chainID) {
		return nil, ErrInvalidChainIDEncoding
	}
	if payload == nil {
		payload = []byte{}
	}

	args, err := method.Inputs.Pack(
		string(chainID),
		FormatContractAddress(target),
		payload,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentEncodingFailed, err)
	}

	out := make([]byte, 0, len(method.ID)+len(args))
	out = append(out, method.ID...)
	return append(out, args...), nil
}

// DecodeCallContract is the inverse of EncodeCallContract.
func DecodeCallContract(data []byte) (CallContract, error) {
	method, err := callContractMethod()
	if err != nil {
		return CallContract{}, err
	}
	if len(data) < len(method.ID) || !bytes.Equal(data[:len(method.ID)], method.ID) {
		return CallContract{}, ErrSelectorMismatch
	}

	values, err := method.Inputs.Unpack(data[len(method.ID):])
	if err != nil {
		return CallContract{}, fmt.Errorf("failed to unpack callContract arguments: %w", err)
	}
	if len(values) != len(method.Inputs) {
		return CallContract{}, fmt.Errorf("expected %d arguments, got %d", len(method.Inputs), len(values))
	}

	var call CallContract
	var ok bool
	if call.DestinationChain, ok = values[0].(string); !ok {
		return CallContract{}, fmt.Errorf("unexpected type %T for %s", values[0], ParamDestinationChain)
	}
	if call.DestinationContractAddress, ok = values[1].(string); !ok {
		return CallContract{}, fmt.Errorf("unexpected type %T for %s", values[1], ParamDestinationContractAddress)
	}
	if call.Payload, ok = values[2].([]byte); !ok {
		return CallContract{}, fmt.Errorf("unexpected type %T for %s", values[2], ParamPayload)
	}
	return call, nil
}

// FormatContractAddress renders addr the way the Axelar gateway expects it.
// common.Address.Hex is not used since it applies the EIP-55 checksum.
func FormatContractAddress(addr common.Address) string {
	return hexutil.Encode(addr[:])
}
