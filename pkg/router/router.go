// Package router defines the contracts shared by every outbound transport. A Router turns an opaque
// domain message into whatever a remote chain expects and hands it to a Submitter, the lower-level
// capability that actually dispatches call data as a chain transaction.
package router

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rotisserie/eris"
)

// Router delivers messages to a single remote domain through one transport.
type Router interface {
	// Init prepares the transport, e.g. verifying the remote contract is the one we expect.
	Init(ctx context.Context) error
	// Send encodes msg for the remote domain and dispatches it on behalf of sender.
	Send(ctx context.Context, sender AccountID, msg []byte) (Receipt, error)
}

// Submitter accepts already-encoded call data and dispatches it as a chain transaction.
type Submitter interface {
	Init(ctx context.Context) error
	Submit(ctx context.Context, sender AccountID, callData []byte) (Receipt, error)
}

// AccountIDLength is the size of a local account identifier in bytes.
const AccountIDLength = 32

// AccountID identifies the local account a message is sent on behalf of.
type AccountID [AccountIDLength]byte

// EVMAddress maps the account to an EVM address by truncating it to its first 20 bytes.
func (a AccountID) EVMAddress() common.Address {
	var addr common.Address
	copy(addr[:], a[:common.AddressLength])
	return addr
}

func (a AccountID) Hex() string {
	return hexutil.Encode(a[:])
}

func (a AccountID) String() string {
	return a.Hex()
}

// ParseAccountID parses a 0x-prefixed (or bare) 64 character hex string.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	raw, err := hexutil.Decode("0x" + strings.TrimPrefix(s, "0x"))
	if err != nil {
		return id, eris.Wrapf(err, "account id %q is not valid hex", s)
	}
	if len(raw) != AccountIDLength {
		return id, eris.Errorf("account id must be %d bytes, got %d", AccountIDLength, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// Receipt is the post-dispatch accounting returned by a Submitter.
type Receipt struct {
	TxHash  common.Hash
	GasUsed uint64
	// Status follows the EVM receipt convention: 1 for success, 0 for failure.
	Status uint64
}
