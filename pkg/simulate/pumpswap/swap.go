// Package pumpswap simulates the PumpSwap constant-product bonding curve,
// including its tiered and direction-dependent fee placement. Grounded on
// nick199910-SolRoute/pkg/pool/pump/amm.go's Quote (constant-product
// reserve math), generalized to the floor-division, integer-only contract
// spec.md §4.4.1 names and its non-teacher tiered-fee selection.
package pumpswap

import (
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/simulate/mathutil"
)

const bpsDenominator = 10_000

// Fees is the {lpBps, protocolBps, coinCreatorBps} triple a fee-tier or
// GlobalConfig resolves to, per spec.md §4.4.1.
type Fees struct {
	LpBps          uint64
	ProtocolBps    uint64
	CoinCreatorBps uint64
}

// TradeFeeBps is lpBps+protocolBps; coinCreatorBps never enters trade math.
func (f Fees) TradeFeeBps() uint64 {
	return f.LpBps + f.ProtocolBps
}

// Input bundles the pure-function swap inputs, per spec.md §4.4.1.
type Input struct {
	AmountIn     uint64
	BaseReserve  uint64
	QuoteReserve uint64
	Direction    ammtypes.Direction
	Fees         Fees
}

// Result is the amountOut and the fee actually taken, as one lp+protocol
// total (no coinCreator share, since coinCreatorBps is excluded from trade
// math).
type Result struct {
	AmountOut uint64
	FeeTotal  uint64
}

// Quote runs the direction-dependent constant-product swap. BaseToQuote
// (sell) takes its fee on the output leg; QuoteToBase (buy) takes its fee
// on the input leg — both observed empirically from vault deltas rather
// than documented by the venue, per spec.md §4.4.1.
func Quote(in Input) Result {
	tradeFeeBps := in.Fees.TradeFeeBps()

	var reserveIn, reserveOut uint64
	if in.Direction == ammtypes.DirectionBaseToQuote {
		reserveIn, reserveOut = in.BaseReserve, in.QuoteReserve
	} else {
		reserveIn, reserveOut = in.QuoteReserve, in.BaseReserve
	}

	if in.AmountIn == 0 {
		return Result{}
	}

	if in.Direction == ammtypes.DirectionBaseToQuote {
		grossOut := mathutil.MulDivFloor(reserveOut, in.AmountIn, reserveIn+in.AmountIn)
		feeOut := mathutil.MulDivFloor(grossOut, tradeFeeBps, bpsDenominator)
		return Result{AmountOut: grossOut - feeOut, FeeTotal: feeOut}
	}

	feeIn := mathutil.MulDivFloor(in.AmountIn, tradeFeeBps, bpsDenominator)
	amountInAfterFee := in.AmountIn - feeIn
	amountOut := mathutil.MulDivFloor(reserveOut, amountInAfterFee, reserveIn+amountInAfterFee)
	return Result{AmountOut: amountOut, FeeTotal: feeIn}
}
