package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/xchain-router/pkg/router"
)

var ErrTransactionReverted = errors.New("transaction reverted")

// ethClient is the subset of ethclient.Client used by ClientBackend.
type ethClient interface {
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

var _ ethClient = (*ethclient.Client)(nil)

// ClientConfig holds the configuration for a ClientBackend.
type ClientConfig struct {
	// RPCURL is the JSON-RPC endpoint of the destination chain.
	RPCURL string `env:"EVM_RPC_URL" envDefault:"http://localhost:8545"`

	// RelayerKey is the hex encoded secp256k1 key that signs outbound transactions.
	RelayerKey string `env:"EVM_RELAYER_KEY"`

	// ReceiptTimeout bounds how long Transact waits for a transaction to be mined.
	ReceiptTimeout time.Duration `env:"EVM_RECEIPT_TIMEOUT" envDefault:"30s"`
}

// Validate validates the client configuration and returns an error if invalid.
func (cfg ClientConfig) Validate() error {
	if cfg.RPCURL == "" {
		return eris.New("EVM RPC URL is required")
	}
	if cfg.RelayerKey == "" {
		return eris.New("relayer key is required")
	}
	if cfg.ReceiptTimeout <= 0 {
		return eris.New("receipt timeout must be positive")
	}
	return nil
}

// ClientBackend submits transactions to a remote EVM node over JSON-RPC. Transactions are signed by
// a single relayer key on behalf of the local sender.
type ClientBackend struct {
	client         ethClient
	key            *ecdsa.PrivateKey
	relayer        common.Address
	receiptTimeout time.Duration
	log            zerolog.Logger
}

var _ Backend = (*ClientBackend)(nil)

// ClientOption defines a function that can modify the ClientConfig before dialing.
type ClientOption func(*ClientConfig)

// WithClientConfig overrides the configuration parsed from the environment.
func WithClientConfig(cfg ClientConfig) ClientOption {
	return func(c *ClientConfig) {
		*c = cfg
	}
}

// NewClientBackend dials the configured RPC endpoint.
func NewClientBackend(ctx context.Context, log zerolog.Logger, opts ...ClientOption) (*ClientBackend, error) {
	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse EVM client config")
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid EVM client config")
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to dial %s", cfg.RPCURL)
	}
	log.Info().Str("url", cfg.RPCURL).Msg("Connected to EVM node")

	return newClientBackend(client, cfg, log)
}

func newClientBackend(client ethClient, cfg ClientConfig, log zerolog.Logger) (*ClientBackend, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.RelayerKey, "0x"))
	if err != nil {
		return nil, eris.Wrap(err, "invalid relayer key")
	}
	return &ClientBackend{
		client:         client,
		key:            key,
		relayer:        crypto.PubkeyToAddress(key.PublicKey),
		receiptTimeout: cfg.ReceiptTimeout,
		log:            log,
	}, nil
}

// Relayer returns the address that signs outbound transactions.
func (b *ClientBackend) Relayer() common.Address {
	return b.relayer
}

func (b *ClientBackend) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	code, err := b.client.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return code, nil
}

// Transact signs tx with the relayer key, sends it and waits for it to be mined.
func (b *ClientBackend) Transact(ctx context.Context, tx Transaction) (router.Receipt, error) {
	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return router.Receipt{}, eris.Wrap(err, "failed to get chain id")
	}
	nonce, err := b.client.PendingNonceAt(ctx, b.relayer)
	if err != nil {
		return router.Receipt{}, eris.Wrapf(err, "failed to get pending nonce for %s", b.relayer)
	}

	to := tx.To
	signed, err := types.SignNewTx(b.key, types.LatestSignerForChainID(chainID), &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: toBig(tx.GasPrice),
		Gas:      tx.GasLimit,
		To:       &to,
		Value:    toBig(tx.Value),
		Data:     tx.Data,
	})
	if err != nil {
		return router.Receipt{}, eris.Wrap(err, "failed to sign transaction")
	}

	if err := b.client.SendTransaction(ctx, signed); err != nil {
		return router.Receipt{}, eris.Wrapf(err, "failed to send transaction %s", signed.Hash())
	}
	b.log.Info().
		Str("tx_hash", signed.Hash().Hex()).
		Str("sender", tx.From.Hex()).
		Str("relayer", b.relayer.Hex()).
		Uint64("nonce", nonce).
		Msg("Sent transaction")

	waitCtx, cancel := context.WithTimeout(ctx, b.receiptTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, b.client, signed)
	if err != nil {
		return router.Receipt{}, eris.Wrapf(err, "failed waiting for transaction %s", signed.Hash())
	}

	out := router.Receipt{TxHash: receipt.TxHash, GasUsed: receipt.GasUsed, Status: receipt.Status}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return out, eris.Wrapf(ErrTransactionReverted, "tx %s", receipt.TxHash)
	}
	return out, nil
}

func toBig(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
