// Package engine is the composition root: it routes ingress account
// updates to the right decoder, applies decoded records to pkg/cache,
// drives pkg/lifecycle transitions, and answers quote requests by
// dispatching to the venue-appropriate pkg/simulate package. Grounded on
// other_examples/RovshanMuradov-solana-bot's *zap.Logger-field-plus-
// zap.String(...) structured logging idiom, generalized from one venue's
// pool manager to the four-venue dispatch spec.md §2 describes.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/cache"
	"github.com/solana-zh/ammengine/pkg/decode/meteoradlmm"
	"github.com/solana-zh/ammengine/pkg/decode/pump"
	"github.com/solana-zh/ammengine/pkg/decode/raydiumclmm"
	"github.com/solana-zh/ammengine/pkg/decode/raydiumv4"
	"github.com/solana-zh/ammengine/pkg/decode/vault"
	"github.com/solana-zh/ammengine/pkg/lifecycle"
	meteoradlmmsim "github.com/solana-zh/ammengine/pkg/simulate/meteoradlmm"
	"github.com/solana-zh/ammengine/pkg/simulate/pumpswap"
	raydiumclmmsim "github.com/solana-zh/ammengine/pkg/simulate/raydiumclmm"
	raydiumv4sim "github.com/solana-zh/ammengine/pkg/simulate/raydiumv4"
)

const (
	kindPumpPool          = "pump.pool"
	kindPumpGlobalConfig  = "pump.global_config"
	kindPumpFeeConfig     = "pump.fee_config"
	kindVault             = "vault"
	kindRaydiumV4Pool     = "raydium_v4.pool"
	kindRaydiumV4OpenOrds = "raydium_v4.open_orders"
	kindClmmPool          = "raydium_clmm.pool"
	kindClmmAmmConfig     = "raydium_clmm.amm_config"
	kindClmmTickArray     = "raydium_clmm.tick_array"
	kindMeteoraPair       = "meteora.pair"
	kindMeteoraBinArray   = "meteora.bin_array"
)

// Engine owns the cache, the lifecycle manager, and a venue registry
// mapping each known pool pubkey to its VenueId.
type Engine struct {
	logger    *zap.Logger
	cache     *cache.Cache
	lifecycle *lifecycle.Manager

	venueOf map[ammtypes.Pubkey]ammtypes.VenueId

	// pumpGlobalConfig/pumpFeeConfig cache the singleton PumpSwap policy
	// accounts (one deployment-wide instance each, not per-pool), replaced
	// only when the cache accepts the write as newer, mirroring how the
	// teacher's ParsePoolData callers fetch these once and reuse across
	// every pool.
	pumpGlobalConfig *pump.GlobalConfig
	pumpFeeConfig    *pump.FeeConfig
}

func New(logger *zap.Logger, c *cache.Cache, lm *lifecycle.Manager) *Engine {
	return &Engine{
		logger:    logger,
		cache:     c,
		lifecycle: lm,
		venueOf:   make(map[ammtypes.Pubkey]ammtypes.VenueId),
	}
}

// ApplyAccountUpdate decodes update.Data against every known account shape
// until one matches (by discriminator or by data length, depending on the
// shape; the owner is not checked), applies the result to the cache, and advances the owning pool's
// lifecycle on a first-seen pool decode. A decode miss is a no-op, per
// spec.md §7's "a failed decode is a no-op".
func (e *Engine) ApplyAccountUpdate(update ammtypes.AccountUpdate) {
	if update.Deleted {
		return
	}

	switch {
	case len(update.Data) >= 8 && bytes.Equal(update.Data[:8], raydiumclmm.PoolDiscriminator):
		e.applyRaydiumClmmPool(update)
	case len(update.Data) >= 8 && bytes.Equal(update.Data[:8], raydiumclmm.AmmConfigDiscriminator):
		e.applyTyped(update, kindClmmAmmConfig, ammtypes.Pubkey{}, func() (any, error) {
			return raydiumclmm.DecodeAmmConfig(update.Data, update.Pubkey)
		})
	case len(update.Data) >= 8 && bytes.Equal(update.Data[:8], raydiumclmm.TickArrayDiscriminator):
		e.applyRaydiumClmmTickArray(update)
	case len(update.Data) >= 8 && bytes.Equal(update.Data[:8], meteoradlmm.PairDiscriminator):
		e.applyMeteoraPair(update)
	case len(update.Data) == meteoradlmm.BinArraySize:
		e.applyMeteoraBinArray(update)
	case len(update.Data) == raydiumv4.ExactDataSize:
		e.applyRaydiumV4Pool(update)
	case len(update.Data) == raydiumv4.OpenOrdersSize:
		e.applyTyped(update, kindRaydiumV4OpenOrds, ammtypes.Pubkey{}, func() (any, error) {
			return raydiumv4.DecodeOpenOrders(update.Data, update.Pubkey)
		})
	case len(update.Data) >= 8 && bytes.Equal(update.Data[:8], pump.GlobalConfigDiscriminator):
		if gc, err := pump.DecodeGlobalConfig(update.Data, update.Pubkey); err == nil {
			if e.applyTyped(update, kindPumpGlobalConfig, ammtypes.Pubkey{}, func() (any, error) { return gc, nil }) {
				e.pumpGlobalConfig = gc
			}
		} else {
			e.logger.Debug("pump global config decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		}
	case len(update.Data) >= 8 && bytes.Equal(update.Data[:8], pump.FeeConfigDiscriminator):
		if fc, err := pump.DecodeFeeConfig(update.Data, update.Pubkey); err == nil {
			if e.applyTyped(update, kindPumpFeeConfig, ammtypes.Pubkey{}, func() (any, error) { return fc, nil }) {
				e.pumpFeeConfig = fc
			}
		} else {
			e.logger.Debug("pump fee config decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		}
	case len(update.Data) >= pump.MinPoolDataSize && len(update.Data) < raydiumv4.ExactDataSize:
		e.applyPumpPool(update)
	case len(update.Data) == 165:
		e.applyTyped(update, kindVault, ammtypes.Pubkey{}, func() (any, error) {
			return vault.Decode(update.Data, update.Pubkey)
		})
	default:
		e.logger.Debug("account update matched no known shape",
			zap.String("pubkey", update.Pubkey.Hex()), zap.Int("len", len(update.Data)))
	}
}

// applyTyped reports whether the cache accepted the decoded record.
func (e *Engine) applyTyped(update ammtypes.AccountUpdate, kind string, poolKey ammtypes.Pubkey, decode func() (any, error)) bool {
	val, err := decode()
	if err != nil {
		e.logger.Debug("decode failed", zap.String("kind", kind), zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return false
	}
	return e.cache.Apply(cache.Update{
		Pubkey:       update.Pubkey,
		Kind:         kind,
		Owner:        update.Owner,
		Value:        val,
		RawData:      update.Data,
		Slot:         update.Slot,
		WriteVersion: update.WriteVersion,
		Source:       update.Source,
		PoolKey:      poolKey,
	}) == cache.Applied
}

func (e *Engine) applyPumpPool(update ammtypes.AccountUpdate) {
	pool, err := pump.Decode(update.Data, update.Pubkey)
	if err != nil {
		e.logger.Debug("pump pool decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return
	}
	e.cache.Apply(cache.Update{
		Pubkey: update.Pubkey, Kind: kindPumpPool, Owner: update.Owner, Value: pool,
		RawData: update.Data, Slot: update.Slot, WriteVersion: update.WriteVersion, Source: update.Source,
	})
	e.onPoolDiscovered(update.Pubkey, ammtypes.VenuePumpSwap, update.Slot, pumpDeps(pool))
}

func (e *Engine) applyRaydiumV4Pool(update ammtypes.AccountUpdate) {
	pool, err := raydiumv4.Decode(update.Data, update.Pubkey)
	if err != nil {
		e.logger.Debug("raydium v4 pool decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return
	}
	e.cache.Apply(cache.Update{
		Pubkey: update.Pubkey, Kind: kindRaydiumV4Pool, Owner: update.Owner, Value: pool,
		RawData: update.Data, Slot: update.Slot, WriteVersion: update.WriteVersion, Source: update.Source,
	})
	e.onPoolDiscovered(update.Pubkey, ammtypes.VenueRaydiumV4, update.Slot, []ammtypes.Pubkey{pool.BaseVault, pool.QuoteVault, pool.OpenOrders})
}

func (e *Engine) applyRaydiumClmmPool(update ammtypes.AccountUpdate) {
	pool, err := raydiumclmm.Decode(update.Data, update.Pubkey)
	if err != nil {
		e.logger.Debug("raydium clmm pool decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return
	}
	e.cache.Apply(cache.Update{
		Pubkey: update.Pubkey, Kind: kindClmmPool, Owner: update.Owner, Value: pool,
		RawData: update.Data, Slot: update.Slot, WriteVersion: update.WriteVersion, Source: update.Source,
	})
	deps := []ammtypes.Pubkey{pool.AmmConfig, pool.TokenVault0, pool.TokenVault1}
	e.onPoolDiscovered(update.Pubkey, ammtypes.VenueRaydiumClmm, update.Slot, deps)
}

func (e *Engine) applyRaydiumClmmTickArray(update ammtypes.AccountUpdate) {
	ta, err := raydiumclmm.DecodeTickArray(update.Data, update.Pubkey)
	if err != nil {
		e.logger.Debug("tick array decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return
	}
	e.cache.Apply(cache.Update{
		Pubkey: update.Pubkey, Kind: kindClmmTickArray, Owner: update.Owner, Value: ta,
		RawData: update.Data, Slot: update.Slot, WriteVersion: update.WriteVersion, Source: update.Source,
		PoolKey: ta.PoolId, ArrayIndex: int64(ta.StartTickIndex),
	})
}

func (e *Engine) applyMeteoraPair(update ammtypes.AccountUpdate) {
	pair, err := meteoradlmm.DecodePair(update.Data, update.Pubkey)
	if err != nil {
		e.logger.Debug("meteora pair decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return
	}
	e.cache.Apply(cache.Update{
		Pubkey: update.Pubkey, Kind: kindMeteoraPair, Owner: update.Owner, Value: pair,
		RawData: update.Data, Slot: update.Slot, WriteVersion: update.WriteVersion, Source: update.Source,
	})
	deps := []ammtypes.Pubkey{pair.ReserveX, pair.ReserveY}
	e.onPoolDiscovered(update.Pubkey, ammtypes.VenueMeteoraDlmm, update.Slot, deps)
}

func (e *Engine) applyMeteoraBinArray(update ammtypes.AccountUpdate) {
	ba, err := meteoradlmm.DecodeBinArray(update.Data, update.Pubkey)
	if err != nil {
		e.logger.Debug("bin array decode failed", zap.String("pubkey", update.Pubkey.Hex()), zap.Error(err))
		return
	}
	e.cache.Apply(cache.Update{
		Pubkey: update.Pubkey, Kind: kindMeteoraBinArray, Owner: update.Owner, Value: ba,
		RawData: update.Data, Slot: update.Slot, WriteVersion: update.WriteVersion, Source: update.Source,
		PoolKey: ba.LbPair, ArrayIndex: ba.Index,
	})
}

func pumpDeps(pool *pump.Pool) []ammtypes.Pubkey {
	return []ammtypes.Pubkey{pool.PoolBaseTokenAccount, pool.PoolQuoteTokenAccount}
}

func (e *Engine) onPoolDiscovered(pool ammtypes.Pubkey, venue ammtypes.VenueId, slot ammtypes.Slot, deps []ammtypes.Pubkey) {
	e.venueOf[pool] = venue
	resolved := func(pk ammtypes.Pubkey) bool {
		_, ok := e.cache.Get(pk)
		return ok
	}
	e.lifecycle.Discover(pool, venue, slot, deps, resolved)
}

// Quote answers a quote request by requiring the pool's topology be at
// least Frozen (Frozen, Active or Refreshing; Unseen and Discovered pools
// get ErrPoolInactive) and its dependency set present in cache, then
// dispatching to the venue-appropriate pkg/simulate package.
func (e *Engine) Quote(ctx context.Context, req ammtypes.QuoteRequest) (ammtypes.QuoteResponse, error) {
	venue, ok := e.venueOf[req.PoolPubkey]
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrUnknownPool
	}
	topo, ok := e.lifecycle.Get(req.PoolPubkey)
	if !ok || topo.State == lifecycle.Unseen || topo.State == lifecycle.Discovered {
		return ammtypes.QuoteResponse{}, ammtypes.ErrPoolInactive
	}

	switch venue {
	case ammtypes.VenuePumpSwap:
		return e.quotePumpSwap(req, topo)
	case ammtypes.VenueRaydiumV4:
		return e.quoteRaydiumV4(req, topo)
	case ammtypes.VenueRaydiumClmm:
		return e.quoteRaydiumClmm(req, topo)
	case ammtypes.VenueMeteoraDlmm:
		return e.quoteMeteoraDlmm(req, topo)
	default:
		return ammtypes.QuoteResponse{}, fmt.Errorf("%w: venue %s quote path not wired", ammtypes.ErrDecodeFailure, venue)
	}
}

func (e *Engine) quotePumpSwap(req ammtypes.QuoteRequest, topo lifecycle.Topology) (ammtypes.QuoteResponse, error) {
	poolRec, ok := e.cache.Get(req.PoolPubkey)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	poolVal, ok := poolRec.Value.(*pump.Pool)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}

	baseRec, ok1 := e.cache.Get(poolVal.PoolBaseTokenAccount)
	quoteRec, ok2 := e.cache.Get(poolVal.PoolQuoteTokenAccount)
	if !ok1 || !ok2 {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	baseVault, ok1 := baseRec.Value.(*vault.Vault)
	quoteVault, ok2 := quoteRec.Value.(*vault.Vault)
	if !ok1 || !ok2 {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}
	if e.pumpGlobalConfig == nil {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}

	marketCap := pumpswap.EstimateMarketCapLamports(quoteVault.Amount)
	global := pumpswap.Fees{
		LpBps:          e.pumpGlobalConfig.LpFeeBasisPoints,
		ProtocolBps:    e.pumpGlobalConfig.ProtocolFeeBasisPoints,
		CoinCreatorBps: e.pumpGlobalConfig.CoinCreatorFeeBasisPoints,
	}
	var tiers []pumpswap.Tier
	var flat *pumpswap.Fees
	if e.pumpFeeConfig != nil {
		tiers = make([]pumpswap.Tier, len(e.pumpFeeConfig.FeeTiers))
		for i, t := range e.pumpFeeConfig.FeeTiers {
			tiers[i] = pumpswap.Tier{
				ThresholdLamports: t.MarketCapLamportsThreshold,
				Fees: pumpswap.Fees{
					LpBps: t.LpFeeBps, ProtocolBps: t.ProtocolFeeBps, CoinCreatorBps: t.CoinCreatorFeeBps,
				},
			}
		}
		flat = &pumpswap.Fees{
			LpBps: e.pumpFeeConfig.FlatFees.LpBps, ProtocolBps: e.pumpFeeConfig.FlatFees.ProtocolBps,
			CoinCreatorBps: e.pumpFeeConfig.FlatFees.CoinCreatorBps,
		}
	}
	fees := pumpswap.SelectFees(marketCap, tiers, flat, global)

	in := pumpswap.Input{
		AmountIn: req.AmountIn, BaseReserve: baseVault.Amount, QuoteReserve: quoteVault.Amount,
		Direction: req.Direction, Fees: fees,
	}
	res := pumpswap.Quote(in)

	resp := ammtypes.QuoteResponse{
		AmountOut:            res.AmountOut,
		FeeBreakdown:         splitPumpFee(res.FeeTotal, fees),
		TopologyFrozenAtSlot: topo.Frozen.FrozenAtSlot,
	}
	if req.Direction == ammtypes.DirectionQuoteToBase {
		a25, a24, residual := pumpswap.Diagnose(in)
		resp.Diagnostic = &ammtypes.BuyFeeDiagnostic{AmountOut25Bps: a25, AmountOut24Bps: a24, ResidualAbs: residual}
	}
	return resp, nil
}

// splitPumpFee divides the single FeeTotal pumpswap.Quote returns back into
// its lp/protocol shares proportional to the fee schedule that produced it.
func splitPumpFee(feeTotal uint64, fees pumpswap.Fees) ammtypes.FeeBreakdown {
	trade := fees.TradeFeeBps()
	if trade == 0 {
		return ammtypes.FeeBreakdown{}
	}
	lp := feeTotal * fees.LpBps / trade
	return ammtypes.FeeBreakdown{Lp: lp, Protocol: feeTotal - lp}
}

func (e *Engine) quoteRaydiumV4(req ammtypes.QuoteRequest, topo lifecycle.Topology) (ammtypes.QuoteResponse, error) {
	poolRec, ok := e.cache.Get(req.PoolPubkey)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	poolVal, ok := poolRec.Value.(*raydiumv4.Pool)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}

	baseRec, ok1 := e.cache.Get(poolVal.BaseVault)
	quoteRec, ok2 := e.cache.Get(poolVal.QuoteVault)
	ordersRec, ok3 := e.cache.Get(poolVal.OpenOrders)
	if !ok1 || !ok2 || !ok3 {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	baseVault, ok1 := baseRec.Value.(*vault.Vault)
	quoteVault, ok2 := quoteRec.Value.(*vault.Vault)
	orders, ok3 := ordersRec.Value.(*raydiumv4.OpenOrders)
	if !ok1 || !ok2 || !ok3 {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}

	res := raydiumv4sim.Quote(raydiumv4sim.Input{
		AmountIn:             req.AmountIn,
		BaseVaultAmount:      baseVault.Amount,
		QuoteVaultAmount:     quoteVault.Amount,
		OpenOrdersBaseTotal:  orders.BaseTokenTotal,
		OpenOrdersQuoteTotal: orders.QuoteTokenTotal,
		BaseNeedTakePnl:      poolVal.BaseNeedTakePnl,
		QuoteNeedTakePnl:     poolVal.QuoteNeedTakePnl,
		SwapFeeNumerator:     poolVal.SwapFeeNumerator,
		SwapFeeDenominator:   poolVal.SwapFeeDenominator,
		Direction:            req.Direction,
	})

	return ammtypes.QuoteResponse{
		AmountOut:            res.AmountOut,
		FeeBreakdown:         ammtypes.FeeBreakdown{Protocol: res.FeeIn},
		TopologyFrozenAtSlot: topo.Frozen.FrozenAtSlot,
	}, nil
}

func (e *Engine) quoteRaydiumClmm(req ammtypes.QuoteRequest, topo lifecycle.Topology) (ammtypes.QuoteResponse, error) {
	poolRec, ok := e.cache.Get(req.PoolPubkey)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	poolVal, ok := poolRec.Value.(*raydiumclmm.Pool)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}

	cfgRec, ok := e.cache.Get(poolVal.AmmConfig)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	cfg, ok := cfgRec.Value.(*raydiumclmm.AmmConfig)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}

	ticks := make([]raydiumclmmsim.InitializedTick, 0, len(topo.Frozen.RequiredTickArrays)*raydiumclmm.TicksPerArray)
	for _, start := range topo.Frozen.RequiredTickArrays {
		rec, ok := e.cache.GetByPool(req.PoolPubkey, kindClmmTickArray, int64(start))
		if !ok {
			return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
		}
		ta, ok := rec.Value.(*raydiumclmm.TickArray)
		if !ok {
			return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
		}
		for _, t := range ta.Ticks {
			if t.Initialized() {
				ticks = append(ticks, raydiumclmmsim.InitializedTick{Index: t.Index, LiquidityNet: t.LiquidityNet})
			}
		}
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Index < ticks[j].Index })

	res, err := raydiumclmmsim.Quote(raydiumclmmsim.Input{
		AmountIn:          req.AmountIn,
		SqrtPriceX64:      poolVal.SqrtPriceX64.Big(),
		Liquidity:         poolVal.Liquidity.Big(),
		TickCurrent:       poolVal.TickCurrent,
		TradeFeeRate:      cfg.TradeFeeRate,
		ZeroForOne:        req.Direction == ammtypes.DirectionBaseToQuote,
		InitializedTicks:  ticks,
	})
	if err != nil {
		return ammtypes.QuoteResponse{}, err
	}

	endingTick := res.EndingTick
	return ammtypes.QuoteResponse{
		AmountOut:            res.AmountOut,
		FeeBreakdown:         ammtypes.FeeBreakdown{Protocol: res.FeeTotal},
		SimulatedTickCurrent: &endingTick,
		TopologyFrozenAtSlot: topo.Frozen.FrozenAtSlot,
	}, nil
}

func (e *Engine) quoteMeteoraDlmm(req ammtypes.QuoteRequest, topo lifecycle.Topology) (ammtypes.QuoteResponse, error) {
	poolRec, ok := e.cache.Get(req.PoolPubkey)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
	}
	pair, ok := poolRec.Value.(*meteoradlmm.Pair)
	if !ok {
		return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
	}

	bins := make([]meteoradlmmsim.BinLiquidity, 0, len(topo.Frozen.RequiredBinArrays)*meteoradlmm.BinsPerArray)
	for _, idx := range topo.Frozen.RequiredBinArrays {
		rec, ok := e.cache.GetByPool(req.PoolPubkey, kindMeteoraBinArray, idx)
		if !ok {
			return ammtypes.QuoteResponse{}, ammtypes.ErrMissingDependency
		}
		ba, ok := rec.Value.(*meteoradlmm.BinArray)
		if !ok {
			return ammtypes.QuoteResponse{}, ammtypes.ErrDecodeFailure
		}
		lower, _ := ba.LowerUpperBinID()
		for i, b := range ba.Bins {
			if b.AmountX == 0 && b.AmountY == 0 {
				continue
			}
			bins = append(bins, meteoradlmmsim.BinLiquidity{
				BinId: lower + int32(i), AmountX: b.AmountX, AmountY: b.AmountY,
			})
		}
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].BinId < bins[j].BinId })

	res, err := meteoradlmmsim.Quote(meteoradlmmsim.Input{
		AmountIn:    req.AmountIn,
		ActiveBinId: pair.ActiveId,
		Direction:   req.Direction,
		Static: meteoradlmmsim.StaticParams{
			BaseFactor: pair.Static.BaseFactor, BaseFeePowerFactor: pair.Static.BaseFeePowerFactor,
			VariableFeeControl: pair.Static.VariableFeeControl, BinStep: pair.BinStep,
		},
		Variable: meteoradlmmsim.VariableParams{VolatilityAccumulator: pair.VParams.VolatilityAccumulator},
		Bins:     bins,
	})
	if err != nil {
		return ammtypes.QuoteResponse{}, err
	}

	endingBin := res.EndingBinId
	return ammtypes.QuoteResponse{
		AmountOut:            res.AmountOut,
		FeeBreakdown:         ammtypes.FeeBreakdown{Protocol: res.FeeTotal},
		SimulatedActiveId:    &endingBin,
		TopologyFrozenAtSlot: topo.Frozen.FrozenAtSlot,
	}, nil
}
