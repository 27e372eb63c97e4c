// Package raydiumclmm decodes the RaydiumClmm-shaped pool account, its
// TickArray dependency, and its AmmConfig. Grounded on
// nick199910-SolRoute/pkg/pool/raydium/clmmPool.go's Decode (sequential
// offset walk) and clmm_tickerarray.go's TickArray.Decode / PDA helpers.
package raydiumclmm

import (
	"bytes"
	"encoding/hex"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
	"lukechampine.com/uint128"
)

// PoolSize is the exact byte length spec.md §3.2 gives for the RaydiumClmm
// pool account, discriminator included.
const PoolSize = 1544

var PoolDiscriminator = mustHex("f7ede3f5d7c3de46")

type Pool struct {
	Pubkey ammtypes.Pubkey

	AmmConfig    ammtypes.Pubkey
	TokenMint0   ammtypes.Pubkey
	TokenMint1   ammtypes.Pubkey
	TokenVault0  ammtypes.Pubkey
	TokenVault1  ammtypes.Pubkey

	MintDecimals0 uint8
	MintDecimals1 uint8
	TickSpacing   uint16

	Liquidity           uint128.Uint128
	SqrtPriceX64        uint128.Uint128
	TickCurrent         int32
	FeeGrowthGlobal0X64 uint128.Uint128
	FeeGrowthGlobal1X64 uint128.Uint128
	ProtocolFeesToken0  uint64
	ProtocolFeesToken1  uint64
	Status              uint8
	TickArrayBitmap     [16]uint64
}

func Decode(buf []byte, pubkey ammtypes.Pubkey) (*Pool, error) {
	if len(buf) != PoolSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthMismatch, "raydium clmm pool: expected exactly 1544 bytes")
	}
	if !bytes.Equal(buf[:8], PoolDiscriminator) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "raydium clmm pool: discriminator mismatch")
	}

	p := &Pool{Pubkey: pubkey}
	var err error

	if p.AmmConfig, err = binutil.ReadPubkey(buf, 9); err != nil {
		return nil, err
	}
	// Owner@41 skipped (not read by the simulator).
	if p.TokenMint0, err = binutil.ReadPubkey(buf, 73); err != nil {
		return nil, err
	}
	if p.TokenMint1, err = binutil.ReadPubkey(buf, 105); err != nil {
		return nil, err
	}
	if p.TokenVault0, err = binutil.ReadPubkey(buf, 137); err != nil {
		return nil, err
	}
	if p.TokenVault1, err = binutil.ReadPubkey(buf, 169); err != nil {
		return nil, err
	}
	// ObservationKey@201 skipped.
	if p.MintDecimals0, err = binutil.ReadU8(buf, 233); err != nil {
		return nil, err
	}
	if p.MintDecimals1, err = binutil.ReadU8(buf, 234); err != nil {
		return nil, err
	}
	if p.TickSpacing, err = binutil.ReadU16LE(buf, 235); err != nil {
		return nil, err
	}
	if p.Liquidity, err = binutil.ReadU128LE(buf, 237); err != nil {
		return nil, err
	}
	if p.SqrtPriceX64, err = binutil.ReadU128LE(buf, 253); err != nil {
		return nil, err
	}
	if p.TickCurrent, err = binutil.ReadI32LE(buf, 269); err != nil {
		return nil, err
	}
	// Two explicit u16 fields (ObservationIndex@273, ObservationUpdateDuration@275)
	// are spec.md §4.1's "padding3, padding4" — the real Anchor field names,
	// skipped but accounted for so feeGrowthGlobal0X64 lands at 277.
	if p.FeeGrowthGlobal0X64, err = binutil.ReadU128LE(buf, 277); err != nil {
		return nil, err
	}
	if p.FeeGrowthGlobal1X64, err = binutil.ReadU128LE(buf, 293); err != nil {
		return nil, err
	}
	if p.ProtocolFeesToken0, err = binutil.ReadU64LE(buf, 309); err != nil {
		return nil, err
	}
	if p.ProtocolFeesToken1, err = binutil.ReadU64LE(buf, 317); err != nil {
		return nil, err
	}
	// SwapIn/OutAmountToken0/1@325..389 skipped (bookkeeping only).
	if p.Status, err = binutil.ReadU8(buf, 389); err != nil {
		return nil, err
	}
	// Padding[7]@390, RewardInfos[3]@397 (169 bytes each) skipped.
	bitmapOffset := 904
	for i := 0; i < 16; i++ {
		if p.TickArrayBitmap[i], err = binutil.ReadU64LE(buf, bitmapOffset+i*8); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
