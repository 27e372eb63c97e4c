// Package vault decodes the one fragment every venue's Quote needs from an
// SPL token account: its mint and its balance. Grounded on the inline
// data[64:72]/data[0:32] slicing repeated in nick199910-SolRoute's
// pump/amm.go, raydium/ammPool.go and raydium/clmmPool.go Quote methods —
// promoted here to a single shared decoder.
package vault

import (
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// MinSize covers the two fields this decoder reads out of an SPL token
// account (mint at [0:32], amount at [64:72]); a real token account is 165
// bytes but only the leading 72 matter here.
const MinSize = 72

type Vault struct {
	Pubkey ammtypes.Pubkey
	Mint   ammtypes.Pubkey
	Amount uint64
}

func Decode(buf []byte, pubkey ammtypes.Pubkey) (*Vault, error) {
	if len(buf) < MinSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthTooShort, "vault: data shorter than 72 bytes")
	}
	v := &Vault{Pubkey: pubkey}
	var err error
	if v.Mint, err = binutil.ReadPubkey(buf, 0); err != nil {
		return nil, err
	}
	if v.Amount, err = binutil.ReadU64LE(buf, 64); err != nil {
		return nil, err
	}
	return v, nil
}
