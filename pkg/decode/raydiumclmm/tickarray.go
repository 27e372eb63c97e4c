package raydiumclmm

import (
	"bytes"
	"math/big"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
	"lukechampine.com/uint128"
)

// TickArraySize is the exact 10240-byte length of a TickArray account.
const TickArraySize = 10240

// TicksPerArray is the number of ticks packed per tick-array account.
const TicksPerArray = 60

// tickRecordSize is 168 bytes: reconciling spec.md §3.2's per-tick field
// list against the account's stated 10240-byte total and its header
// offsets (poolId@8, startTickIndex@40) pins the per-tick stride at 168,
// not the rounder 170 the prose suggests (44 + 60*170 would overrun 10240).
const tickRecordSize = 168

var TickArrayDiscriminator = mustHex("c09b55cd31f9812a")

type Tick struct {
	Index                int32
	LiquidityNet         *big.Int
	LiquidityGross       uint128.Uint128
	FeeGrowthOutside0X64 uint128.Uint128
	FeeGrowthOutside1X64 uint128.Uint128
}

// Initialized derives liquidity-gross-nonzero, per spec.md §4.1.
func (t Tick) Initialized() bool {
	return t.LiquidityGross != (uint128.Uint128{})
}

type TickArray struct {
	Pubkey         ammtypes.Pubkey
	PoolId         ammtypes.Pubkey
	StartTickIndex int32
	Ticks          [TicksPerArray]Tick
}

func DecodeTickArray(buf []byte, pubkey ammtypes.Pubkey) (*TickArray, error) {
	if len(buf) != TickArraySize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthMismatch, "tick array: expected exactly 10240 bytes")
	}
	if !bytes.Equal(buf[:8], TickArrayDiscriminator) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "tick array: discriminator mismatch")
	}

	ta := &TickArray{Pubkey: pubkey}
	var err error
	if ta.PoolId, err = binutil.ReadPubkey(buf, 8); err != nil {
		return nil, err
	}
	if ta.StartTickIndex, err = binutil.ReadI32LE(buf, 40); err != nil {
		return nil, err
	}

	pos := 44
	for i := 0; i < TicksPerArray; i++ {
		var t Tick
		if t.Index, err = binutil.ReadI32LE(buf, pos); err != nil {
			return nil, err
		}
		// LiquidityNet is a 16-byte i128, read with binutil.ReadI128LE's
		// two's-complement fold.
		if t.LiquidityNet, err = binutil.ReadI128LE(buf, pos+4); err != nil {
			return nil, err
		}
		if t.LiquidityGross, err = binutil.ReadU128LE(buf, pos+20); err != nil {
			return nil, err
		}
		if t.FeeGrowthOutside0X64, err = binutil.ReadU128LE(buf, pos+36); err != nil {
			return nil, err
		}
		if t.FeeGrowthOutside1X64, err = binutil.ReadU128LE(buf, pos+52); err != nil {
			return nil, err
		}
		ta.Ticks[i] = t
		pos += tickRecordSize
	}

	return ta, nil
}

// StartTickIndexFor returns the start tick of the tick-array that covers
// tick t at the given spacing, per spec.md §4.3.
func StartTickIndexFor(tick int32, spacing uint16) int32 {
	ticksPerArraySpan := int32(spacing) * TicksPerArray
	q := tick / ticksPerArraySpan
	if tick%ticksPerArraySpan != 0 && tick < 0 {
		q--
	}
	return q * ticksPerArraySpan
}
