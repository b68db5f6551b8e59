// Package axelar routes messages to EVM chains through the Axelar gateway. Messages are wrapped in a
// callContract(string,string,bytes) call and submitted to the gateway contract by an underlying EVM
// submitter.
package axelar

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/argus-labs/xchain-router/pkg/router"
)

var _ router.Router = (*Router)(nil)

// Router is the Axelar-over-EVM transport adapter.
type Router struct {
	submitter   router.Submitter
	destination Destination
}

func NewRouter(submitter router.Submitter, destination Destination) *Router {
	return &Router{submitter: submitter, destination: destination}
}

func (r *Router) Destination() Destination {
	return r.destination
}

// Init initializes the underlying submitter.
func (r *Router) Init(ctx context.Context) error {
	if err := r.submitter.Init(ctx); err != nil {
		return eris.Wrap(err, "failed to initialize axelar submitter")
	}
	return nil
}

// Send encodes msg for the Axelar gateway and submits it. The submitter is never called if encoding
// fails.
func (r *Router) Send(ctx context.Context, sender router.AccountID, msg []byte) (router.Receipt, error) {
	callData, err := EncodeCallContract(msg, r.destination.chainID, r.destination.contract)
	if err != nil {
		return router.Receipt{}, router.NewEncodingError(err)
	}

	receipt, err := r.submitter.Submit(ctx, sender, callData)
	if err != nil {
		return router.Receipt{}, router.NewSubmissionError(err)
	}
	return receipt, nil
}
