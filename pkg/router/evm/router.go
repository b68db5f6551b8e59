// Package evm routes messages by calling a contract on an EVM chain directly. Its Router is also the
// Submitter that other EVM-based transports, such as Axelar, hand their encoded call data to.
package evm

import (
	"bytes"
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/xchain-router/pkg/router"
)

var ErrContractCodeMismatch = errors.New("target contract code does not match")

var (
	_ router.Router    = (*Router)(nil)
	_ router.Submitter = (*Router)(nil)
)

// Transaction is the EVM call a Router asks its Backend to execute.
type Transaction struct {
	From     common.Address
	To       common.Address
	Value    *uint256.Int
	GasPrice *uint256.Int
	GasLimit uint64
	Data     []byte
}

// Backend is the chain a Router submits to.
type Backend interface {
	// CodeAt returns the deployed code at addr.
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
	// Transact executes tx and returns its receipt.
	Transact(ctx context.Context, tx Transaction) (router.Receipt, error)
}

type Router struct {
	domain  Domain
	backend Backend
	log     zerolog.Logger
}

type Option func(*Router)

func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

func NewRouter(domain Domain, backend Backend, opts ...Option) *Router {
	r := &Router{
		domain:  domain,
		backend: backend,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Domain() Domain {
	return r.domain
}

// Init checks that the code deployed at the target address hashes to the expected contract hash.
func (r *Router) Init(ctx context.Context) error {
	code, err := r.backend.CodeAt(ctx, r.domain.TargetContractAddress)
	if err != nil {
		return eris.Wrapf(err, "failed to get code at %s", r.domain.TargetContractAddress)
	}
	if got := crypto.Keccak256Hash(code); got != r.domain.TargetContractHash {
		r.log.Error().
			Str("contract", r.domain.TargetContractAddress.Hex()).
			Str("expected_hash", r.domain.TargetContractHash.Hex()).
			Str("actual_hash", got.Hex()).
			Msg("Target contract code does not match")
		return eris.Wrapf(ErrContractCodeMismatch, "contract %s", r.domain.TargetContractAddress)
	}
	return nil
}

// Send calls the target contract with msg as call data.
func (r *Router) Send(ctx context.Context, sender router.AccountID, msg []byte) (router.Receipt, error) {
	receipt, err := r.Submit(ctx, sender, msg)
	if err != nil {
		return router.Receipt{}, router.NewSubmissionError(err)
	}
	return receipt, nil
}

// Submit executes an EVM call from the sender's EVM address to the target contract.
func (r *Router) Submit(ctx context.Context, sender router.AccountID, callData []byte) (router.Receipt, error) {
	fees := r.domain.FeeValues
	if !fees.GasLimit.IsUint64() {
		return router.Receipt{}, ErrGasLimitOverflow
	}

	tx := Transaction{
		From:     sender.EVMAddress(),
		To:       r.domain.TargetContractAddress,
		Value:    fees.Value.Clone(),
		GasPrice: fees.GasPrice.Clone(),
		GasLimit: fees.GasLimit.Uint64(),
		Data:     bytes.Clone(callData),
	}

	r.log.Debug().
		Str("from", tx.From.Hex()).
		Str("to", tx.To.Hex()).
		Uint64("gas_limit", tx.GasLimit).
		Int("data_len", len(tx.Data)).
		Msg("Submitting EVM call")

	receipt, err := r.backend.Transact(ctx, tx)
	if err != nil {
		return router.Receipt{}, eris.Wrap(err, "evm transaction failed")
	}
	return receipt, nil
}
