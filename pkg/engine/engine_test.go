package engine_test

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/cache"
	"github.com/solana-zh/ammengine/pkg/decode/meteoradlmm"
	"github.com/solana-zh/ammengine/pkg/decode/pump"
	"github.com/solana-zh/ammengine/pkg/decode/raydiumclmm"
	"github.com/solana-zh/ammengine/pkg/decode/raydiumv4"
	"github.com/solana-zh/ammengine/pkg/engine"
	"github.com/solana-zh/ammengine/pkg/lifecycle"
)

func newHarness() (*engine.Engine, *cache.Cache, *lifecycle.Manager) {
	c := cache.New(func() int64 { return time.Now().UnixMilli() })
	lm := lifecycle.NewManager(nil)
	return engine.New(zap.NewNop(), c, lm), c, lm
}

func pk(b byte) ammtypes.Pubkey {
	var p ammtypes.Pubkey
	p[0] = b
	return p
}

func vaultUpdate(pubkey ammtypes.Pubkey, amount uint64) ammtypes.AccountUpdate {
	buf := make([]byte, 165)
	binary.LittleEndian.PutUint64(buf[64:72], amount)
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func pumpPoolUpdate(pubkey, baseVault, quoteVault ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, pump.MinPoolDataSize)
	// Creator@11, BaseMint@43, QuoteMint@75, LpMint@107, PoolBaseTokenAccount@139,
	// PoolQuoteTokenAccount@171, LpSupply@203.
	copy(buf[139:171], baseVault[:])
	copy(buf[171:203], quoteVault[:])
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func pumpGlobalConfigUpdate(pubkey ammtypes.Pubkey, lpBps, protocolBps uint64) ammtypes.AccountUpdate {
	buf := make([]byte, pump.MinGlobalConfigSize)
	copy(buf[:8], pump.GlobalConfigDiscriminator)
	binary.LittleEndian.PutUint64(buf[40:48], lpBps)
	binary.LittleEndian.PutUint64(buf[48:56], protocolBps)
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func TestApplyAccountUpdateWithNoMatchingShapeIsANoOp(t *testing.T) {
	eng, c, _ := newHarness()
	eng.ApplyAccountUpdate(ammtypes.AccountUpdate{Pubkey: pk(1), Data: []byte{1, 2, 3}, Slot: 1})
	assert.Equal(t, 0, c.Size())
}

func TestQuoteRejectsUnknownPool(t *testing.T) {
	eng, _, _ := newHarness()
	_, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{PoolPubkey: pk(9)})
	assert.ErrorIs(t, err, ammtypes.ErrUnknownPool)
}

func TestQuoteRejectsInactiveTopology(t *testing.T) {
	eng, _, _ := newHarness()
	pool, base, quote := pk(1), pk(2), pk(3)

	eng.ApplyAccountUpdate(pumpPoolUpdate(pool, base, quote))

	_, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{PoolPubkey: pool})
	assert.ErrorIs(t, err, ammtypes.ErrPoolInactive, "a pool that is only Discovered must not be quotable yet")
}

func TestPumpSwapEndToEndQuote(t *testing.T) {
	eng, _, lm := newHarness()
	pool, base, quote, globalCfg := pk(1), pk(2), pk(3), pk(4)

	eng.ApplyAccountUpdate(pumpPoolUpdate(pool, base, quote))
	eng.ApplyAccountUpdate(vaultUpdate(base, 100_000_000))
	eng.ApplyAccountUpdate(vaultUpdate(quote, 200_000_000))
	eng.ApplyAccountUpdate(pumpGlobalConfigUpdate(globalCfg, 20, 5))

	topo, ok := lm.Get(pool)
	require.True(t, ok)
	assert.Equal(t, lifecycle.Discovered, topo.State)

	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{PoolPubkey: pool, FrozenAtSlot: 10}, true))
	require.True(t, lm.TryActivate(pool, 11, nil))

	resp, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{
		PoolPubkey: pool, AmountIn: 1_000_000, Direction: ammtypes.DirectionBaseToQuote,
	})
	require.NoError(t, err)

	grossOut := uint64(200_000_000) * 1_000_000 / (100_000_000 + 1_000_000)
	feeOut := grossOut * 25 / 10_000
	assert.Equal(t, grossOut-feeOut, resp.AmountOut)
	assert.Equal(t, feeOut, resp.FeeBreakdown.Lp+resp.FeeBreakdown.Protocol)
	assert.Equal(t, ammtypes.Slot(10), resp.TopologyFrozenAtSlot)
	assert.Nil(t, resp.Diagnostic, "sell direction must not carry the buy-fee-placement diagnostic")
}

func TestPumpSwapQuoteMissingGlobalConfigIsMissingDependency(t *testing.T) {
	eng, _, lm := newHarness()
	pool, base, quote := pk(1), pk(2), pk(3)

	eng.ApplyAccountUpdate(pumpPoolUpdate(pool, base, quote))
	eng.ApplyAccountUpdate(vaultUpdate(base, 100))
	eng.ApplyAccountUpdate(vaultUpdate(quote, 100))

	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{PoolPubkey: pool, FrozenAtSlot: 1}, true))
	require.True(t, lm.TryActivate(pool, 2, nil))

	_, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{PoolPubkey: pool, AmountIn: 1})
	assert.ErrorIs(t, err, ammtypes.ErrMissingDependency)
}

func raydiumv4PoolUpdate(pubkey, baseVault, quoteVault, openOrders ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, raydiumv4.ExactDataSize)
	binary.LittleEndian.PutUint64(buf[176:184], 25)    // SwapFeeNumerator
	binary.LittleEndian.PutUint64(buf[184:192], 10_000) // SwapFeeDenominator
	copy(buf[336:368], baseVault[:])
	copy(buf[368:400], quoteVault[:])
	copy(buf[496:528], openOrders[:])
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func raydiumv4OpenOrdersUpdate(pubkey ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, raydiumv4.OpenOrdersSize)
	copy(buf[0:5], []byte("serum"))
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func TestRaydiumV4EndToEndQuote(t *testing.T) {
	eng, _, lm := newHarness()
	pool, base, quote, openOrders := pk(1), pk(2), pk(3), pk(4)

	eng.ApplyAccountUpdate(raydiumv4PoolUpdate(pool, base, quote, openOrders))
	eng.ApplyAccountUpdate(vaultUpdate(base, 100_000_000))
	eng.ApplyAccountUpdate(vaultUpdate(quote, 200_000_000))
	eng.ApplyAccountUpdate(raydiumv4OpenOrdersUpdate(openOrders))

	topo, ok := lm.Get(pool)
	require.True(t, ok)
	assert.Equal(t, lifecycle.Discovered, topo.State)

	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{PoolPubkey: pool, FrozenAtSlot: 10}, true))
	require.True(t, lm.TryActivate(pool, 11, nil))

	resp, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{
		PoolPubkey: pool, AmountIn: 1_000_000, Direction: ammtypes.DirectionBaseToQuote,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1_975_296), resp.AmountOut)
	assert.Equal(t, uint64(2_500), resp.FeeBreakdown.Protocol)
	assert.Equal(t, ammtypes.Slot(10), resp.TopologyFrozenAtSlot)
}

// clmmPoolUpdate builds a pool account whose AmmConfig/Liquidity/
// SqrtPriceX64/TickCurrent match pkg/simulate/raydiumclmm's
// TestQuoteSingleStepStaysWithinTickCoverage fixture exactly, so the
// expected AmountOut/FeeTotal here are the same hand-verified values.
func clmmPoolUpdate(pubkey, ammConfig ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, raydiumclmm.PoolSize)
	copy(buf[:8], raydiumclmm.PoolDiscriminator)
	copy(buf[9:41], ammConfig[:])
	binary.LittleEndian.PutUint64(buf[237:245], 1_000_000_000_000_000_000) // Liquidity lo
	// SqrtPriceX64 = 2^64 (Q64.64 unity, tick 0): lo=0, hi=1.
	binary.LittleEndian.PutUint64(buf[261:269], 1) // SqrtPriceX64 hi
	binary.LittleEndian.PutUint32(buf[269:273], uint32(0))
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func clmmAmmConfigUpdate(pubkey ammtypes.Pubkey, tradeFeeRate uint32) ammtypes.AccountUpdate {
	buf := make([]byte, raydiumclmm.AmmConfigSize)
	copy(buf[:8], raydiumclmm.AmmConfigDiscriminator)
	binary.LittleEndian.PutUint32(buf[47:51], tradeFeeRate)
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

// clmmTickArrayUpdate encodes a single array with StartTickIndex -60 and
// two initialized ticks at -60 and 0, matching the layout raydiumclmmsim's
// own swap tests exercise.
func clmmTickArrayUpdate(pubkey, poolId ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, raydiumclmm.TickArraySize)
	copy(buf[:8], raydiumclmm.TickArrayDiscriminator)
	copy(buf[8:40], poolId[:])
	binary.LittleEndian.PutUint32(buf[40:44], uint32(int32(-60))) // StartTickIndex

	writeTick := func(pos int, index int32) {
		binary.LittleEndian.PutUint32(buf[pos:pos+4], uint32(index))
		// LiquidityNet left at 0; LiquidityGross=1 marks the tick initialized.
		buf[pos+20] = 1
	}
	writeTick(44, -60)
	writeTick(44+168, 0)

	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func TestRaydiumClmmEndToEndQuote(t *testing.T) {
	eng, _, lm := newHarness()
	pool, ammConfig, tickArray := pk(1), pk(2), pk(3)

	eng.ApplyAccountUpdate(clmmPoolUpdate(pool, ammConfig))
	eng.ApplyAccountUpdate(clmmAmmConfigUpdate(ammConfig, 2_500))
	eng.ApplyAccountUpdate(clmmTickArrayUpdate(tickArray, pool))

	topo, ok := lm.Get(pool)
	require.True(t, ok)
	assert.Equal(t, lifecycle.Discovered, topo.State)

	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{
		PoolPubkey: pool, FrozenAtSlot: 10, RequiredTickArrays: []int32{-60},
	}, true))
	require.True(t, lm.TryActivate(pool, 11, nil))

	resp, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{
		PoolPubkey: pool, AmountIn: 1_000_000, Direction: ammtypes.DirectionBaseToQuote,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(997_500), resp.AmountOut)
	assert.Equal(t, uint64(2_500), resp.FeeBreakdown.Protocol)
	require.NotNil(t, resp.SimulatedTickCurrent)
	assert.Equal(t, int32(0), *resp.SimulatedTickCurrent)
}

func TestRaydiumClmmQuoteMissingAmmConfigIsMissingDependency(t *testing.T) {
	eng, _, lm := newHarness()
	pool, ammConfig := pk(1), pk(2)

	eng.ApplyAccountUpdate(clmmPoolUpdate(pool, ammConfig))
	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{PoolPubkey: pool, FrozenAtSlot: 1}, true))
	require.True(t, lm.TryActivate(pool, 2, nil))

	_, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{PoolPubkey: pool, AmountIn: 1})
	assert.ErrorIs(t, err, ammtypes.ErrMissingDependency)
}

// meteoraPairUpdate/meteoraBinArrayUpdate mirror pkg/simulate/meteoradlmm's
// TestQuoteFullyDrainsASingleBin fixture: a 25bps base fee, no variable
// fee, a single bin at id 0 holding 1_000_000 of token Y.
func meteoraPairUpdate(pubkey, reserveX, reserveY ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, meteoradlmm.MinPairSize)
	copy(buf[:8], meteoradlmm.PairDiscriminator)
	binary.LittleEndian.PutUint16(buf[8:10], 250) // BaseFactor
	buf[34] = 2                                   // BaseFeePowerFactor
	// VariableFeeControl@16 stays 0.
	binary.LittleEndian.PutUint32(buf[76:80], uint32(int32(0))) // ActiveId
	binary.LittleEndian.PutUint16(buf[80:82], 1)                // BinStep
	copy(buf[88:120], pubkey[:])    // TokenXMint (unused by the simulator)
	copy(buf[120:152], pubkey[:])   // TokenYMint (unused by the simulator)
	copy(buf[152:184], reserveX[:]) // ReserveX
	copy(buf[184:216], reserveY[:]) // ReserveY
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func meteoraBinArrayUpdate(pubkey, lbPair ammtypes.Pubkey) ammtypes.AccountUpdate {
	buf := make([]byte, meteoradlmm.BinArraySize)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(0)) // Index = 0
	copy(buf[24:56], lbPair[:])
	// Bin 0 starts at offset 56 (8 discriminator + 8 index + 1 version + 7 padding + 32 lbPair).
	binary.LittleEndian.PutUint64(buf[56+8:56+16], 1_000_000) // Bins[0].AmountY
	return ammtypes.AccountUpdate{Pubkey: pubkey, Data: buf, Slot: 1}
}

func TestMeteoraDlmmEndToEndQuote(t *testing.T) {
	eng, _, lm := newHarness()
	pool, reserveX, reserveY, binArray := pk(1), pk(2), pk(3), pk(4)

	eng.ApplyAccountUpdate(meteoraPairUpdate(pool, reserveX, reserveY))
	eng.ApplyAccountUpdate(meteoraBinArrayUpdate(binArray, pool))

	topo, ok := lm.Get(pool)
	require.True(t, ok)
	assert.Equal(t, lifecycle.Discovered, topo.State)

	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{
		PoolPubkey: pool, FrozenAtSlot: 10, RequiredBinArrays: []int64{0},
	}, true))
	require.True(t, lm.TryActivate(pool, 11, nil))

	resp, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{
		PoolPubkey: pool, AmountIn: 1_000_000, Direction: ammtypes.DirectionBaseToQuote,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(997_500), resp.AmountOut)
	assert.Equal(t, uint64(2_500), resp.FeeBreakdown.Protocol)
	require.NotNil(t, resp.SimulatedActiveId)
	assert.Equal(t, int32(0), *resp.SimulatedActiveId)
}

func TestMeteoraDlmmQuoteMissingBinArrayIsMissingDependency(t *testing.T) {
	eng, _, lm := newHarness()
	pool, reserveX, reserveY := pk(1), pk(2), pk(3)

	eng.ApplyAccountUpdate(meteoraPairUpdate(pool, reserveX, reserveY))
	require.True(t, lm.TryFreeze(pool, lifecycle.FrozenTopology{
		PoolPubkey: pool, FrozenAtSlot: 1, RequiredBinArrays: []int64{0},
	}, true))
	require.True(t, lm.TryActivate(pool, 2, nil))

	_, err := eng.Quote(context.Background(), ammtypes.QuoteRequest{PoolPubkey: pool, AmountIn: 1})
	assert.ErrorIs(t, err, ammtypes.ErrMissingDependency)
}
