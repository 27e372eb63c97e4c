// Package raydiumv4 simulates the constant-product-with-effective-reserves
// hybrid: vault balances adjusted for open-orders totals and pending PnL
// before the ordinary x*y=k formula runs. Grounded on
// nick199910-SolRoute/pkg/pool/raydium/ammPool.go's Quote (effective
// reserve subtraction, fee-on-input, constant-product division), extended
// per spec.md §4.4.2 to add the openOrders totals the teacher's Quote
// omits.
package raydiumv4

import (
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/simulate/mathutil"
)

// Input bundles the pure-function swap inputs, per spec.md §4.4.2.
type Input struct {
	AmountIn            uint64
	BaseVaultAmount     uint64
	QuoteVaultAmount    uint64
	OpenOrdersBaseTotal uint64
	OpenOrdersQuoteTotal uint64
	BaseNeedTakePnl     uint64
	QuoteNeedTakePnl    uint64
	SwapFeeNumerator    uint64
	SwapFeeDenominator  uint64
	Direction           ammtypes.Direction
}

type Result struct {
	AmountOut      uint64
	FeeIn          uint64
	EffectiveBase  uint64
	EffectiveQuote uint64
}

// Quote computes the effective reserves and runs the fee-on-input
// constant-product formula, per spec.md §4.4.2.
func Quote(in Input) Result {
	effectiveBase := mathutil.SatSub(in.BaseVaultAmount+in.OpenOrdersBaseTotal, in.BaseNeedTakePnl)
	effectiveQuote := mathutil.SatSub(in.QuoteVaultAmount+in.OpenOrdersQuoteTotal, in.QuoteNeedTakePnl)

	res := Result{EffectiveBase: effectiveBase, EffectiveQuote: effectiveQuote}

	var reserveIn, reserveOut uint64
	if in.Direction == ammtypes.DirectionBaseToQuote {
		reserveIn, reserveOut = effectiveBase, effectiveQuote
	} else {
		reserveIn, reserveOut = effectiveQuote, effectiveBase
	}

	if in.AmountIn == 0 || reserveIn == 0 || reserveOut == 0 || in.SwapFeeDenominator == 0 {
		return res
	}

	feeIn := mathutil.MulDivFloor(in.AmountIn, in.SwapFeeNumerator, in.SwapFeeDenominator)
	amountInAfterFee := in.AmountIn - feeIn
	res.FeeIn = feeIn
	res.AmountOut = mathutil.MulDivFloor(reserveOut, amountInAfterFee, reserveIn+amountInAfterFee)
	return res
}
