// Package meteoradlmm simulates the discrete-liquidity bin-based swap: a
// fixed per-bin price, walked bin by bin in the swap direction, with a
// variable fee schedule driven by the pair's volatility accumulator. No
// teacher file computes this swap in pure form (dlmm.go only decodes the
// account, swap.go only builds the on-chain instruction); built fresh in
// the same pure-function, integer-exact style as pkg/simulate/pumpswap and
// pkg/simulate/raydiumv4, following spec.md §4.4.4's algorithm and the
// public Meteora DLMM fee-math shape (variable fee as the square of
// volatilityAccumulator*binStep, scaled by variableFeeControl).
package meteoradlmm

import (
	"math/big"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/simulate/mathutil"
)

const bpsDenominator = 10_000

// variableFeeScalingFactor matches the public Meteora DLMM program's
// 1e11 divisor when folding (volatilityAccumulator*binStep)^2*variableFeeControl
// down into a basis-points-comparable fee rate.
const variableFeeScalingFactor = 100_000_000_000

// BinLiquidity is one bin's absorbable token amounts, sourced from the
// caller's merged bin-array snapshots.
type BinLiquidity struct {
	BinId   int32
	AmountX uint64
	AmountY uint64
}

// StaticParams mirrors meteoradlmm.StaticParameters' fee-relevant fields.
type StaticParams struct {
	BaseFactor               uint16
	BaseFeePowerFactor       uint8
	VariableFeeControl       uint32
	BinStep                  uint16
}

// VariableParams mirrors the volatility accumulator the variable fee reads.
type VariableParams struct {
	VolatilityAccumulator uint32
}

// Input bundles the pure-function swap inputs, per spec.md §4.4.4.
type Input struct {
	AmountIn    uint64
	ActiveBinId int32
	Direction   ammtypes.Direction // BaseToQuote = X->Y, QuoteToBase = Y->X
	Static      StaticParams
	Variable    VariableParams
	// Bins must be sorted ascending by BinId and cover every bin the swap
	// could cross; if traversal exits coverage with amountRemaining > 0,
	// Quote returns ErrInsufficientBinCoverage.
	Bins []BinLiquidity
}

type Result struct {
	AmountOut  uint64
	FeeTotal   uint64
	EndingBinId int32
}

// BaseFeeBps is baseFactor*binStep*10/10^baseFeePowerFactor (integer
// exponent), per spec.md §4.4.4.
func BaseFeeBps(s StaticParams) uint64 {
	num := uint64(s.BaseFactor) * uint64(s.BinStep) * 10
	pow := uint64(1)
	for i := uint8(0); i < s.BaseFeePowerFactor; i++ {
		pow *= 10
	}
	if pow == 0 {
		return 0
	}
	return num / pow
}

// VariableFeeBps folds the volatility accumulator into a basis-points fee,
// per spec.md §4.4.4's variableFeeBps(volatilityAccumulator, binStep,
// variableFeeControl).
func VariableFeeBps(v VariableParams, s StaticParams) uint64 {
	if s.VariableFeeControl == 0 {
		return 0
	}
	vab := new(big.Int).Mul(big.NewInt(int64(v.VolatilityAccumulator)), big.NewInt(int64(s.BinStep)))
	squared := new(big.Int).Mul(vab, vab)
	scaled := new(big.Int).Mul(squared, big.NewInt(int64(s.VariableFeeControl)))
	scaled.Quo(scaled, big.NewInt(variableFeeScalingFactor))
	return scaled.Uint64()
}

// PriceAtBin computes (1+binStep/10_000)^binId in Q64.64, per spec.md
// §4.4.4. Negative binId inverts the positive-exponent result.
func PriceAtBin(binId int32, binStepBps uint16) *big.Int {
	factorNum := bpsDenominator + int64(binStepBps)
	factor := new(big.Int).SetInt64(factorNum) // scaled by bpsDenominator

	exp := int64(binId)
	neg := exp < 0
	if neg {
		exp = -exp
	}

	result := new(big.Int).Lsh(big.NewInt(1), 64) // 1.0 in Q64.64
	base := new(big.Int).Lsh(factor, 64)
	base.Quo(base, big.NewInt(bpsDenominator)) // factor/bpsDenominator in Q64.64

	for i := int64(0); i < exp; i++ {
		result.Mul(result, base)
		result.Rsh(result, 64)
	}

	if neg {
		one64 := new(big.Int).Lsh(big.NewInt(1), 128)
		result = one64.Quo(one64, result)
	}
	return result
}

// Quote walks bins from activeBinId in the swap direction, per spec.md
// §4.4.4's per-bin consume loop.
func Quote(in Input) (Result, error) {
	amountRemaining := in.AmountIn
	var amountOut uint64
	var feeTotal uint64

	baseFeeBps := BaseFeeBps(in.Static)
	variableFeeBps := VariableFeeBps(in.Variable, in.Static)
	effectiveFeeBps := baseFeeBps + variableFeeBps

	idx := findBinIndex(in.Bins, in.ActiveBinId)
	if idx < 0 {
		return Result{}, ammtypes.ErrInsufficientBinCoverage
	}

	xToY := in.Direction == ammtypes.DirectionBaseToQuote
	endingBinId := in.ActiveBinId

	for amountRemaining > 0 {
		if idx < 0 || idx >= len(in.Bins) {
			return Result{}, ammtypes.ErrInsufficientBinCoverage
		}
		bin := in.Bins[idx]
		endingBinId = bin.BinId

		var available uint64
		if xToY {
			available = bin.AmountY
		} else {
			available = bin.AmountX
		}
		if available == 0 {
			idx = advance(idx, xToY)
			continue
		}

		price := PriceAtBin(bin.BinId, in.Static.BinStep)

		var binCanAbsorbIn uint64
		if xToY {
			// amountX the bin can absorb to drain all of its Y: amountX = amountY / price
			binCanAbsorbIn = mathutil.MulDivFloor(available, uint64(1)<<63, mulHiSafe(price))
		} else {
			binCanAbsorbIn = mathutil.MulDivFloor(available, mulHiSafe(price), uint64(1)<<63)
		}
		if binCanAbsorbIn == 0 {
			binCanAbsorbIn = 1
		}

		feeAmount := mathutil.MulDivFloor(available, effectiveFeeBps, bpsDenominator)
		netAvailable := available
		if feeAmount < netAvailable {
			netAvailable -= feeAmount
		} else {
			netAvailable = 0
		}

		if amountRemaining >= binCanAbsorbIn {
			amountOut += netAvailable
			feeTotal += feeAmount
			amountRemaining -= binCanAbsorbIn
			idx = advance(idx, xToY)
			continue
		}

		partialOut := mathutil.MulDivFloor(netAvailable, amountRemaining, binCanAbsorbIn)
		partialFee := mathutil.MulDivFloor(feeAmount, amountRemaining, binCanAbsorbIn)
		amountOut += partialOut
		feeTotal += partialFee
		amountRemaining = 0
	}

	return Result{AmountOut: amountOut, FeeTotal: feeTotal, EndingBinId: endingBinId}, nil
}

// mulHiSafe collapses a Q64.64 price down to a 64-bit scale factor safe for
// mulDivFloor's uint64 inputs; prices at realistic bin ids/binSteps stay
// well inside this range for the token amounts this engine quotes.
func mulHiSafe(price *big.Int) uint64 {
	scaled := new(big.Int).Rsh(price, 1) // price/2, keeping headroom below 2^63
	if scaled.Sign() == 0 {
		return 1
	}
	if !scaled.IsUint64() {
		return ^uint64(0)
	}
	return scaled.Uint64()
}

func findBinIndex(bins []BinLiquidity, binId int32) int {
	for i, b := range bins {
		if b.BinId == binId {
			return i
		}
	}
	return -1
}

func advance(idx int, xToY bool) int {
	if xToY {
		return idx + 1
	}
	return idx - 1
}
