package mocks

import (
	"bytes"
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/argus-labs/xchain-router/pkg/router"
	"github.com/argus-labs/xchain-router/pkg/router/evm"
)

var _ evm.Backend = (*Backend)(nil)

// Backend is an in-memory EVM chain. It holds deployed code per address and records every
// transaction it is asked to execute.
type Backend struct {
	mu sync.Mutex

	code         map[common.Address][]byte
	transactions []evm.Transaction

	CodeAtErr  error
	TransactFn func(ctx context.Context, tx evm.Transaction) (router.Receipt, error)
}

func NewBackend() *Backend {
	return &Backend{code: make(map[common.Address][]byte)}
}

// Deploy sets the code at addr and returns its keccak256 hash.
func (b *Backend) Deploy(addr common.Address, code []byte) common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.code[addr] = bytes.Clone(code)
	return crypto.Keccak256Hash(code)
}

func (b *Backend) CodeAt(_ context.Context, addr common.Address) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.CodeAtErr != nil {
		return nil, b.CodeAtErr
	}
	return bytes.Clone(b.code[addr]), nil
}

func (b *Backend) Transact(ctx context.Context, tx evm.Transaction) (router.Receipt, error) {
	b.mu.Lock()
	b.transactions = append(b.transactions, tx)
	n := len(b.transactions)
	fn := b.TransactFn
	b.mu.Unlock()

	if fn != nil {
		return fn(ctx, tx)
	}
	return router.Receipt{
		TxHash:  crypto.Keccak256Hash(tx.From[:], tx.Data, []byte{byte(n)}),
		GasUsed: tx.GasLimit,
		Status:  1,
	}, nil
}

// Transactions returns a copy of the executed transactions in call order.
func (b *Backend) Transactions() []evm.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]evm.Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}
