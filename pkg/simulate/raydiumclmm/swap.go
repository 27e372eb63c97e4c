// Package raydiumclmm simulates the concentrated-liquidity, tick-based
// swap: single-step constant-product-in-sqrt-price applied tick by tick.
// Grounded on nick199910-SolRoute/pkg/pool/raydium/clmmPool.go's
// swapCompute/swapStepCompute (loop structure, liquidityNet application
// direction, fee-on-input accounting), simplified to the Δ0/Δ1 identities
// spec.md §4.4.3 gives directly rather than the teacher's roundUp/roundDown
// variant set.
package raydiumclmm

import (
	"math/big"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
)

// feeRateDenominator is the millionths scale tradeFeeRate is given in, per
// spec.md §4.4.3.
const feeRateDenominator = 1_000_000

// InitializedTick is one initialized tick supplied to the swap loop,
// pre-merged by the caller from every tick-array within frozen coverage.
type InitializedTick struct {
	Index        int32
	LiquidityNet *big.Int
}

// Input bundles the pure-function swap inputs, per spec.md §4.4.3.
type Input struct {
	AmountIn       uint64
	SqrtPriceX64   *big.Int
	Liquidity      *big.Int
	TickCurrent    int32
	TradeFeeRate   uint32 // ammConfig.tradeFeeRate, denominator 1_000_000
	ZeroForOne     bool
	// InitializedTicks must be sorted ascending by Index and cover every
	// tick the swap could cross; if the loop walks past the last supplied
	// tick with amountRemaining > 0, Quote returns ErrInsufficientTickCoverage.
	InitializedTicks []InitializedTick
}

type Result struct {
	AmountOut           uint64
	FeeTotal            uint64
	EndingSqrtPriceX64  *big.Int
	EndingTick          int32
	EndingLiquidity     *big.Int
	FeeGrowthGlobalX64Delta *big.Int
}

// Quote walks the tick range crossing initialized ticks one at a time,
// per spec.md §4.4.3's algorithm.
func Quote(in Input) (Result, error) {
	sqrtPrice := new(big.Int).Set(in.SqrtPriceX64)
	liquidity := new(big.Int).Set(in.Liquidity)
	tick := in.TickCurrent
	amountRemaining := new(big.Int).SetUint64(in.AmountIn)

	var amountOut big.Int
	var feeTotal big.Int
	feeGrowthGlobalDelta := new(big.Int)

	idx := locateTickIndex(in.InitializedTicks, tick, in.ZeroForOne)

	for amountRemaining.Sign() > 0 {
		nextTick, liquidityNet, found := nextInitialized(in.InitializedTicks, &idx, in.ZeroForOne)
		if !found {
			return Result{}, ammtypes.ErrInsufficientTickCoverage
		}

		sqrtPriceTarget := GetSqrtPriceAtTick(nextTick)

		step := singleStep(sqrtPrice, sqrtPriceTarget, liquidity, amountRemaining, in.TradeFeeRate, in.ZeroForOne)

		amountRemaining.Sub(amountRemaining, new(big.Int).Add(step.amountIn, step.feeAmount))
		amountOut.Add(&amountOut, step.amountOut)
		feeTotal.Add(&feeTotal, step.feeAmount)
		sqrtPrice = step.sqrtPriceNext

		if liquidity.Sign() > 0 {
			feeGrowthGlobalDelta.Add(feeGrowthGlobalDelta, floorShiftedDiv(step.feeAmount, liquidity))
		}

		if sqrtPrice.Cmp(sqrtPriceTarget) == 0 {
			delta := new(big.Int).Set(liquidityNet)
			if in.ZeroForOne {
				delta.Neg(delta)
			}
			liquidity.Add(liquidity, delta)
			tick = nextTick
		}

		if amountRemaining.Sign() < 0 {
			amountRemaining.SetInt64(0)
		}
	}

	return Result{
		AmountOut:               clampUint64(&amountOut),
		FeeTotal:                clampUint64(&feeTotal),
		EndingSqrtPriceX64:      sqrtPrice,
		EndingTick:              tick,
		EndingLiquidity:         liquidity,
		FeeGrowthGlobalX64Delta: feeGrowthGlobalDelta,
	}, nil
}

type stepResult struct {
	sqrtPriceNext *big.Int
	amountIn      *big.Int
	amountOut     *big.Int
	feeAmount     *big.Int
}

// singleStep runs one constant-product-in-sqrt-price step toward target,
// per spec.md §4.4.3 step 3, stopping early if amountRemaining is consumed
// before reaching target.
func singleStep(sqrtPrice, sqrtPriceTarget, liquidity, amountRemaining *big.Int, feeRate uint32, zeroForOne bool) stepResult {
	feeRateBig := big.NewInt(int64(feeRate))
	denom := big.NewInt(feeRateDenominator)
	afterFeeDenom := new(big.Int).Sub(denom, feeRateBig)

	amountRemainingAfterFee := new(big.Int).Mul(amountRemaining, afterFeeDenom)
	amountRemainingAfterFee.Quo(amountRemainingAfterFee, denom)

	var amountToTarget *big.Int
	if zeroForOne {
		amountToTarget = delta0(sqrtPriceTarget, sqrtPrice, liquidity)
	} else {
		amountToTarget = delta1(sqrtPrice, sqrtPriceTarget, liquidity)
	}

	var sqrtPriceNext *big.Int
	if amountRemainingAfterFee.Cmp(amountToTarget) >= 0 {
		sqrtPriceNext = new(big.Int).Set(sqrtPriceTarget)
	} else {
		sqrtPriceNext = nextSqrtPriceFromInput(sqrtPrice, liquidity, amountRemainingAfterFee, zeroForOne)
	}

	var amountIn, amountOut *big.Int
	if zeroForOne {
		amountIn = delta0(sqrtPriceNext, sqrtPrice, liquidity)
		amountOut = delta1(sqrtPriceNext, sqrtPrice, liquidity)
	} else {
		amountIn = delta1(sqrtPrice, sqrtPriceNext, liquidity)
		amountOut = delta0(sqrtPrice, sqrtPriceNext, liquidity)
	}

	var feeAmount *big.Int
	if sqrtPriceNext.Cmp(sqrtPriceTarget) != 0 {
		feeAmount = new(big.Int).Sub(amountRemaining, amountIn)
	} else {
		feeAmount = new(big.Int).Mul(amountIn, feeRateBig)
		feeAmount.Add(feeAmount, new(big.Int).Sub(afterFeeDenom, big.NewInt(1)))
		feeAmount.Quo(feeAmount, afterFeeDenom)
	}

	return stepResult{sqrtPriceNext: sqrtPriceNext, amountIn: amountIn, amountOut: amountOut, feeAmount: feeAmount}
}

// delta0 computes Δ0 = L*(sqrtPHi - sqrtPLo)/(sqrtPHi*sqrtPLo) with
// sqrtPLo <= sqrtPHi, per spec.md §4.4.3.
func delta0(sqrtPLo, sqrtPHi, liquidity *big.Int) *big.Int {
	if sqrtPLo.Cmp(sqrtPHi) > 0 {
		sqrtPLo, sqrtPHi = sqrtPHi, sqrtPLo
	}
	num := new(big.Int).Lsh(liquidity, 64)
	num.Mul(num, new(big.Int).Sub(sqrtPHi, sqrtPLo))
	denom := new(big.Int).Mul(sqrtPHi, sqrtPLo)
	if denom.Sign() == 0 {
		return big.NewInt(0)
	}
	return num.Quo(num, denom)
}

// delta1 computes Δ1 = L*(sqrtPHi - sqrtPLo), per spec.md §4.4.3.
func delta1(sqrtPLo, sqrtPHi, liquidity *big.Int) *big.Int {
	if sqrtPLo.Cmp(sqrtPHi) > 0 {
		sqrtPLo, sqrtPHi = sqrtPHi, sqrtPLo
	}
	diff := new(big.Int).Sub(sqrtPHi, sqrtPLo)
	prod := new(big.Int).Mul(liquidity, diff)
	return prod.Rsh(prod, 64)
}

func nextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *big.Int, zeroForOne bool) *big.Int {
	if zeroForOne {
		// 1/sqrtP' = 1/sqrtP + amountIn/L  =>  sqrtP' = L*sqrtP*2^64 / (L*2^64 + amountIn*sqrtP)
		numerator := new(big.Int).Lsh(liquidity, 64)
		numerator.Mul(numerator, sqrtPrice)
		denom := new(big.Int).Lsh(liquidity, 64)
		denom.Add(denom, new(big.Int).Mul(amountIn, sqrtPrice))
		if denom.Sign() == 0 {
			return new(big.Int).Set(sqrtPrice)
		}
		return numerator.Quo(numerator, denom)
	}
	// sqrtP' = sqrtP + amountIn*2^64/L
	delta := new(big.Int).Lsh(amountIn, 64)
	if liquidity.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice)
	}
	delta.Quo(delta, liquidity)
	return new(big.Int).Add(sqrtPrice, delta)
}

func floorShiftedDiv(feeAmount, liquidity *big.Int) *big.Int {
	if liquidity.Sign() == 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Lsh(feeAmount, 64)
	return num.Quo(num, liquidity)
}

func clampUint64(v *big.Int) uint64 {
	if v.Sign() < 0 {
		return 0
	}
	max := new(big.Int).SetUint64(^uint64(0))
	if v.Cmp(max) > 0 {
		return ^uint64(0)
	}
	return v.Uint64()
}

func locateTickIndex(ticks []InitializedTick, current int32, zeroForOne bool) int {
	if zeroForOne {
		for i := len(ticks) - 1; i >= 0; i-- {
			if ticks[i].Index <= current {
				return i
			}
		}
		return -1
	}
	for i := 0; i < len(ticks); i++ {
		if ticks[i].Index > current {
			return i - 1
		}
	}
	return len(ticks) - 1
}

func nextInitialized(ticks []InitializedTick, idx *int, zeroForOne bool) (int32, *big.Int, bool) {
	if zeroForOne {
		*idx--
		if *idx < 0 {
			return 0, nil, false
		}
		return ticks[*idx].Index, ticks[*idx].LiquidityNet, true
	}
	*idx++
	if *idx >= len(ticks) {
		return 0, nil, false
	}
	return ticks[*idx].Index, ticks[*idx].LiquidityNet, true
}
