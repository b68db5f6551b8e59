package cmd

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/argus-labs/xchain-router/pkg/router"
	"github.com/argus-labs/xchain-router/pkg/router/evm"
)

var errOffline = errors.New("no EVM node configured")

// offlineBackend backs routers that are only inspected, never used to send.
type offlineBackend struct{}

var _ evm.Backend = offlineBackend{}

func (offlineBackend) CodeAt(context.Context, common.Address) ([]byte, error) {
	return nil, errOffline
}

func (offlineBackend) Transact(context.Context, evm.Transaction) (router.Receipt, error) {
	return router.Receipt{}, errOffline
}
