// cmd/ammengine is a small demo binary: it fetches one pool account over
// RPC, feeds it into pkg/engine, logs the pool's lifecycle state, and then
// asks for a quote. The pool's vaults and other dependencies are not
// fetched and nothing freezes its topology, so the pool stays Discovered
// and the quote is logged as not ready. It replaces the teacher's main.go (which built, signed
// and submitted an actual swap transaction) — this module's Non-goals
// exclude transaction signing/submission, so the demo stops at the quote.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solana-zh/ammengine/pkg/ammcfg"
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/cache"
	"github.com/solana-zh/ammengine/pkg/engine"
	"github.com/solana-zh/ammengine/pkg/ingest/rpcbootstrap"
	"github.com/solana-zh/ammengine/pkg/lifecycle"
)

var (
	// poolAddr is the pool account to bootstrap and quote. Left blank by
	// default; set via AMMENGINE_DEMO_POOL or edit before running.
	poolAddr = ""

	amountIn    = uint64(10_000_000)
	direction   = ammtypes.DirectionBaseToQuote
	pollTimeout = 5 * time.Second
)

func main() {
	cfg, err := ammcfg.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	if v := os.Getenv("AMMENGINE_DEMO_POOL"); v != "" {
		poolAddr = v
	}
	if poolAddr == "" {
		logger.Warn("no demo pool address set, exiting without bootstrapping")
		return
	}

	pool := ammtypes.Pubkey(solana.MustPublicKeyFromBase58(poolAddr))

	fetcher := rpcbootstrap.New(cfg.Rpc.Endpoint, cfg.Rpc.RequestsPerSecond, cfg.Rpc.Burst)
	c := cache.New(func() int64 { return time.Now().UnixMilli() })
	lm := lifecycle.NewManager(nil)
	eng := engine.New(logger, c, lm)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	updates, err := fetcher.FetchAccounts(ctx, []ammtypes.Pubkey{pool})
	if err != nil {
		logger.Fatal("bootstrap fetch failed", zap.Error(err))
	}
	for _, u := range updates {
		eng.ApplyAccountUpdate(u)
	}

	topo, ok := lm.Get(pool)
	if !ok {
		logger.Warn("pool not discovered after bootstrap", zap.String("pool", poolAddr))
		return
	}
	logger.Info("pool discovered", zap.String("pool", poolAddr), zap.String("state", topo.State.String()))

	resp, err := eng.Quote(ctx, ammtypes.QuoteRequest{
		PoolPubkey: pool,
		AmountIn:   amountIn,
		Direction:  direction,
	})
	if err != nil {
		logger.Info("quote not ready", zap.Error(err))
		return
	}
	logger.Info("quote",
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("amount_out", resp.AmountOut),
		zap.Uint64("fee_lp", resp.FeeBreakdown.Lp),
		zap.Uint64("fee_protocol", resp.FeeBreakdown.Protocol),
	)
}
