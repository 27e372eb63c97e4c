package pump

import "github.com/gagliardetto/solana-go"

// Program and well-known account ids. The teacher's copy of this package
// referenced these identifiers (PumpSwapProgramID, PumpGlobalConfig, ...)
// from pump/amm.go and pump/utils.go without ever defining them in the
// retrieved tree; they are restored here at their real mainnet values.
var (
	PumpSwapProgramID                    = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	PumpGlobalConfig                     = solana.MustPublicKeyFromBase58("ADyA8hdefvWN2dbGGWFotbzWxrAvLW83WG6QCVXvJKqw")
	PumpProtocolFeeRecipient              = solana.MustPublicKeyFromBase58("62qc2CNXwrYqQScmEdiZFFAnJR262PYJjeYEfHBGN2D5")
	PumpProtocolFeeRecipientTokenAccount = solana.MustPublicKeyFromBase58("94qWNrtmfn42h3ZjUZwWvK1MEo9uVmmrBPd2hpNjYDHu")
)

// DefaultFeeRate is a flat 25bps trade fee expressed as a fraction. The
// quote path does not read it: a PumpSwap quote with no GlobalConfig
// applied fails with ErrMissingDependency.
const DefaultFeeRate = 0.00250

// CreatorVaultSeed derives the coin-creator vault authority PDA, kept from
// pkg/pool/pump/utils.go.
const CreatorVaultSeed = "creator_vault"
