// Package pump decodes PumpSwap-shaped accounts: the pool itself, the
// GlobalConfig fee policy, and the FeeConfig market-cap-tiered schedule.
// Grounded on nick199910-SolRoute/pkg/pool/pump/amm.go's ParsePoolData,
// extended with explicit bounds checking. The pool decoder does not check
// the leading 8-byte discriminator; GlobalConfig and FeeConfig decoding do.
package pump

import (
	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// MinPoolDataSize is the 211-byte minimum spec.md §3.2 names for the
// PumpSwap pool account (8-byte discriminator + the fixed fields below).
const MinPoolDataSize = 211

// Pool mirrors the on-chain PumpSwap pool account.
type Pool struct {
	Pubkey                ammtypes.Pubkey
	PoolBump              uint8
	Index                 uint16
	Creator               ammtypes.Pubkey
	BaseMint              ammtypes.Pubkey
	QuoteMint             ammtypes.Pubkey
	LpMint                ammtypes.Pubkey
	PoolBaseTokenAccount  ammtypes.Pubkey
	PoolQuoteTokenAccount ammtypes.Pubkey
	LpSupply              uint64
	// CoinCreator is only present when the account carries the optional
	// trailing 32 bytes; zero value otherwise, matching the teacher's
	// ParsePoolData fallback to the System Program id.
	CoinCreator ammtypes.Pubkey
}

// Decode parses a PumpSwap pool account. buf must include the leading
// 8-byte discriminator, which is skipped without being compared; any
// buffer of at least MinPoolDataSize bytes is accepted.
func Decode(buf []byte, pubkey ammtypes.Pubkey) (*Pool, error) {
	if len(buf) < MinPoolDataSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthTooShort, "pump pool: data shorter than 211 bytes")
	}

	p := &Pool{Pubkey: pubkey}
	var err error

	if p.PoolBump, err = binutil.ReadU8(buf, 8); err != nil {
		return nil, err
	}
	if p.Index, err = binutil.ReadU16LE(buf, 9); err != nil {
		return nil, err
	}

	offset := 11
	read32 := func() (ammtypes.Pubkey, error) {
		pk, e := binutil.ReadPubkey(buf, offset)
		offset += 32
		return pk, e
	}
	if p.Creator, err = read32(); err != nil {
		return nil, err
	}
	if p.BaseMint, err = read32(); err != nil {
		return nil, err
	}
	if p.QuoteMint, err = read32(); err != nil {
		return nil, err
	}
	if p.LpMint, err = read32(); err != nil {
		return nil, err
	}
	if p.PoolBaseTokenAccount, err = read32(); err != nil {
		return nil, err
	}
	if p.PoolQuoteTokenAccount, err = read32(); err != nil {
		return nil, err
	}
	if p.LpSupply, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8

	if len(buf) >= offset+32 {
		if p.CoinCreator, err = binutil.ReadPubkey(buf, offset); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// PubkeyToSolana converts an ammtypes.Pubkey to a gagliardetto/solana-go
// PublicKey.
func PubkeyToSolana(pk ammtypes.Pubkey) solana.PublicKey {
	var out solana.PublicKey
	copy(out[:], pk[:])
	return out
}
