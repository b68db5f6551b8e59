package mocks

import (
	"bytes"
	"context"
	"sync"

	"github.com/argus-labs/xchain-router/pkg/router"
)

var _ router.Submitter = (*Submitter)(nil)

// Submission is a single recorded call to Submitter.Submit.
type Submission struct {
	Sender   router.AccountID
	CallData []byte
}

// Submitter records every call it receives. InitFn and SubmitFn override the default behavior of
// succeeding with an empty receipt.
type Submitter struct {
	mu sync.Mutex

	InitFn   func(ctx context.Context) error
	SubmitFn func(ctx context.Context, sender router.AccountID, callData []byte) (router.Receipt, error)

	initCalls   int
	submissions []Submission
}

func NewSubmitter() *Submitter {
	return &Submitter{}
}

func (s *Submitter) Init(ctx context.Context) error {
	s.mu.Lock()
	s.initCalls++
	fn := s.InitFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (s *Submitter) Submit(ctx context.Context, sender router.AccountID, callData []byte) (router.Receipt, error) {
	s.mu.Lock()
	s.submissions = append(s.submissions, Submission{Sender: sender, CallData: bytes.Clone(callData)})
	fn := s.SubmitFn
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, sender, callData)
	}
	return router.Receipt{Status: 1}, nil
}

func (s *Submitter) InitCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initCalls
}

// Submissions returns a copy of the recorded submissions in call order.
func (s *Submitter) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}
