package raydiumv4_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/simulate/raydiumv4"
)

func TestQuoteAppliesEffectiveReserves(t *testing.T) {
	in := raydiumv4.Input{
		AmountIn: 1_000_000,
		BaseVaultAmount: 100_000_000, OpenOrdersBaseTotal: 5_000_000, BaseNeedTakePnl: 2_000_000,
		QuoteVaultAmount: 200_000_000, OpenOrdersQuoteTotal: 0, QuoteNeedTakePnl: 0,
		SwapFeeNumerator: 25, SwapFeeDenominator: 10_000,
		Direction: ammtypes.DirectionBaseToQuote,
	}
	res := raydiumv4.Quote(in)

	assert.Equal(t, uint64(103_000_000), res.EffectiveBase)
	assert.Equal(t, uint64(200_000_000), res.EffectiveQuote)

	feeIn := uint64(1_000_000) * 25 / 10_000
	afterFee := 1_000_000 - feeIn
	wantOut := uint64(200_000_000) * afterFee / (103_000_000 + afterFee)
	assert.Equal(t, wantOut, res.AmountOut)
	assert.Equal(t, feeIn, res.FeeIn)
}

func TestQuoteNeedTakePnlSaturatesAtZero(t *testing.T) {
	in := raydiumv4.Input{
		BaseVaultAmount: 100, OpenOrdersBaseTotal: 0, BaseNeedTakePnl: 1_000,
		QuoteVaultAmount: 500, SwapFeeNumerator: 25, SwapFeeDenominator: 10_000,
	}
	res := raydiumv4.Quote(in)
	assert.Equal(t, uint64(0), res.EffectiveBase, "sat_sub must floor at zero, never wrap")
}

func TestQuoteZeroReserveYieldsZeroOutput(t *testing.T) {
	in := raydiumv4.Input{
		AmountIn: 1_000, BaseVaultAmount: 0, QuoteVaultAmount: 500,
		SwapFeeNumerator: 25, SwapFeeDenominator: 10_000, Direction: ammtypes.DirectionBaseToQuote,
	}
	res := raydiumv4.Quote(in)
	assert.Equal(t, uint64(0), res.AmountOut)
	assert.Equal(t, uint64(0), res.FeeIn)
}
