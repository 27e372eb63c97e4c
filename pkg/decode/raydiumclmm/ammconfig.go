package raydiumclmm

import (
	"bytes"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// AmmConfigSize is the exact 117-byte length spec.md §3.2 names.
const AmmConfigSize = 117

var AmmConfigDiscriminator = mustHex("daf42168cbcb2b6f")

type AmmConfig struct {
	Pubkey          ammtypes.Pubkey
	TradeFeeRate    uint32
	TickSpacing     uint16
	ProtocolFeeRate uint32
	FundFeeRate     uint32
	Owner           ammtypes.Pubkey
}

func DecodeAmmConfig(buf []byte, pubkey ammtypes.Pubkey) (*AmmConfig, error) {
	if len(buf) != AmmConfigSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthMismatch, "amm config: expected exactly 117 bytes")
	}
	if !bytes.Equal(buf[:8], AmmConfigDiscriminator) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "amm config: discriminator mismatch")
	}

	c := &AmmConfig{Pubkey: pubkey}
	var err error
	offset := 8
	// bump:u8, index:u16 precede the fields the simulator reads.
	offset += 1 // bump
	offset += 2 // index
	if c.Owner, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32
	if c.ProtocolFeeRate, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if c.TradeFeeRate, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if c.TickSpacing, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if c.FundFeeRate, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}

	return c, nil
}

// PdaTickArraySeed big-endian-encodes startTickIndex for the tick_array
// PDA, per spec.md §4.1: "start-tick is encoded big-endian", confirmed by
// the teacher's own i32ToBytes(startIndex) using binary.BigEndian.
func PdaTickArraySeed(startTickIndex int32) [4]byte {
	var b [4]byte
	b[0] = byte(uint32(startTickIndex) >> 24)
	b[1] = byte(uint32(startTickIndex) >> 16)
	b[2] = byte(uint32(startTickIndex) >> 8)
	b[3] = byte(uint32(startTickIndex))
	return b
}
