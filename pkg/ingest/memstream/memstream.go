// Package memstream is an in-process StreamConsumer reference
// implementation: a buffered pair of channels callers push into directly.
// Useful for tests and local demos in place of a real streaming RPC
// transport, which spec.md §1 names as an external collaborator's
// responsibility.
package memstream

import (
	"context"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
)

type Stream struct {
	accounts chan ammtypes.AccountUpdate
	txs      chan ammtypes.TxUpdate
}

func New(bufferSize int) *Stream {
	return &Stream{
		accounts: make(chan ammtypes.AccountUpdate, bufferSize),
		txs:      make(chan ammtypes.TxUpdate, bufferSize),
	}
}

func (s *Stream) AccountUpdates() <-chan ammtypes.AccountUpdate { return s.accounts }
func (s *Stream) TxUpdates() <-chan ammtypes.TxUpdate           { return s.txs }

// Run blocks until ctx is cancelled, then closes both channels. Real
// transports would pump network reads into Push* here; this reference
// implementation only owns shutdown.
func (s *Stream) Run(ctx context.Context) error {
	<-ctx.Done()
	close(s.accounts)
	close(s.txs)
	return ctx.Err()
}

// PushAccount feeds one account update to AccountUpdates' consumer.
func (s *Stream) PushAccount(ctx context.Context, u ammtypes.AccountUpdate) error {
	select {
	case s.accounts <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushTx feeds one tx update to TxUpdates' consumer.
func (s *Stream) PushTx(ctx context.Context, u ammtypes.TxUpdate) error {
	select {
	case s.txs <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
