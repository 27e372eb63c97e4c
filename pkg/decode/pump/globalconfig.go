package pump

import (
	"bytes"
	"encoding/hex"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// GlobalConfigDiscriminator is the Anchor discriminator for the PumpSwap
// GlobalConfig account, per spec.md §3.2.
var GlobalConfigDiscriminator = mustHex("95089ccaa0fcb0d9")

// MinGlobalConfigSize is the 321-byte minimum spec.md names for GlobalConfig.
const MinGlobalConfigSize = 321

// GlobalConfig is the constant-product fee policy fallback used when a
// pool has no FeeConfig tier match.
type GlobalConfig struct {
	Pubkey                    ammtypes.Pubkey
	Admin                     ammtypes.Pubkey
	LpFeeBasisPoints          uint64
	ProtocolFeeBasisPoints    uint64
	DisableFlags              uint8
	ProtocolFeeRecipients     [8]ammtypes.Pubkey
	CoinCreatorFeeBasisPoints uint64
}

func DecodeGlobalConfig(buf []byte, pubkey ammtypes.Pubkey) (*GlobalConfig, error) {
	if len(buf) < MinGlobalConfigSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthTooShort, "global config: data shorter than 321 bytes")
	}
	if !bytes.Equal(buf[:8], GlobalConfigDiscriminator) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "global config: discriminator mismatch")
	}

	gc := &GlobalConfig{Pubkey: pubkey}
	var err error
	offset := 8
	if gc.Admin, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32
	if gc.LpFeeBasisPoints, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8
	if gc.ProtocolFeeBasisPoints, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8
	if gc.DisableFlags, err = binutil.ReadU8(buf, offset); err != nil {
		return nil, err
	}
	offset += 1
	for i := 0; i < 8; i++ {
		if gc.ProtocolFeeRecipients[i], err = binutil.ReadPubkey(buf, offset); err != nil {
			return nil, err
		}
		offset += 32
	}
	if gc.CoinCreatorFeeBasisPoints, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}

	return gc, nil
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
