package raydiumv4

import "github.com/gagliardetto/solana-go"

// RaydiumAmmProgramID is restored at its real mainnet value; the
// teacher's copy referenced RAYDIUM_AMM_PROGRAM_ID throughout
// pkg/pool/raydium and pkg/protocol/raydium_amm.go without defining it.
var RaydiumAmmProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")

// LiquidityFeesNumerator/Denominator mirror the teacher's referenced
// LIQUIDITY_FEES_NUMERATOR/DENOMINATOR constants. The quote path does not
// read them: a pool whose SwapFeeDenominator is zero quotes zero output.
const (
	LiquidityFeesNumerator   = 25
	LiquidityFeesDenominator = 10000
)
