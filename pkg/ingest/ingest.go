// Package ingest defines the external-collaborator boundary: the
// interfaces a streaming RPC transport, a bootstrap RPC fetcher, and a
// trace/lifecycle sink must satisfy to feed pkg/engine, per spec.md §6.
// Streaming transport, shred-based pre-confirmation, and trace persistence
// are themselves out of scope (spec.md §1 Non-goals); this package only
// names the seams they plug into.
package ingest

import (
	"context"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
)

// StreamConsumer delivers account and tx updates from an external
// real-time transport (gRPC, websocket, or similar). Implementations are
// out of scope for this module; pkg/ingest/memstream is a reference
// implementation for tests and local demos.
type StreamConsumer interface {
	AccountUpdates() <-chan ammtypes.AccountUpdate
	TxUpdates() <-chan ammtypes.TxUpdate
	Run(ctx context.Context) error
}

// BootstrapFetcher fetches account snapshots by pubkey on demand, used to
// resolve a pool's dependency set on Discover, per spec.md §4.3's
// "Bootstrap loop".
type BootstrapFetcher interface {
	FetchAccounts(ctx context.Context, pubkeys []ammtypes.Pubkey) ([]ammtypes.AccountUpdate, error)
}

// TraceSink receives cache trace events and lifecycle events for offline
// replay and determinism proofs, per spec.md §6.
type TraceSink interface {
	EmitTrace(event any)
	EmitLifecycle(event ammtypes.LifecycleEvent)
}
