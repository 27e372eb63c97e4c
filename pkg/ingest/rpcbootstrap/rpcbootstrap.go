// Package rpcbootstrap adapts nick199910-SolRoute/pkg/sol's rate-limited
// RPC client into an ingest.BootstrapFetcher: the transaction-submission
// surface (sign/send/Jito/token-account helpers) is dropped as out of scope
// (spec.md §1 Non-goals name transaction submission), but the rate-limited
// GetMultipleAccountsWithOpts wrapper is kept and repurposed as the
// dependency-resolution fetch spec.md §4.3's bootstrap loop needs.
package rpcbootstrap

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
)

// Fetcher wraps a rate-limited RPC client, in the shape of the teacher's
// sol.Client/sol.RateLimiter pairing.
type Fetcher struct {
	rpcClient *solrpc.Client
	limiter   *rate.Limiter
}

// New constructs a Fetcher against endpoint, capped at requestsPerSecond
// with the given burst, per the teacher's sol.NewRateLimiter.
func New(endpoint string, requestsPerSecond, burst int) *Fetcher {
	return &Fetcher{
		rpcClient: solrpc.New(endpoint),
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// FetchAccounts implements ingest.BootstrapFetcher (not lifecycle's
// BootstrapEnqueuer): a single rate-limited GetMultipleAccounts round trip
// mapped back into ammtypes.AccountUpdate records tagged SourceBootstrap.
func (f *Fetcher) FetchAccounts(ctx context.Context, pubkeys []ammtypes.Pubkey) ([]ammtypes.AccountUpdate, error) {
	if len(pubkeys) == 0 {
		return nil, nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	keys := make([]solana.PublicKey, len(pubkeys))
	for i, pk := range pubkeys {
		keys[i] = solana.PublicKey(pk)
	}

	opts := &solrpc.GetMultipleAccountsOpts{Commitment: solrpc.CommitmentProcessed}
	res, err := f.rpcClient.GetMultipleAccountsWithOpts(ctx, keys, opts)
	if err != nil {
		return nil, fmt.Errorf("bootstrap fetch: %w", err)
	}

	slot := res.Context.Slot
	updates := make([]ammtypes.AccountUpdate, 0, len(keys))
	for i, acc := range res.Value {
		if acc == nil {
			updates = append(updates, ammtypes.AccountUpdate{
				Pubkey:  pubkeys[i],
				Slot:    slot,
				Source:  ammtypes.SourceBootstrap,
				Deleted: true,
			})
			continue
		}
		updates = append(updates, ammtypes.AccountUpdate{
			Pubkey:   pubkeys[i],
			Owner:    ammtypes.Pubkey(acc.Owner),
			Data:     acc.Data.GetBinary(),
			Slot:     slot,
			Lamports: acc.Lamports,
			Source:   ammtypes.SourceBootstrap,
		})
	}
	return updates, nil
}
