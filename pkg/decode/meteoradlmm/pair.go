// Package meteoradlmm decodes MeteoraDlmm-shaped pair accounts and their
// BinArray dependencies. Grounded on
// nick199910-SolRoute/pkg/pool/meteora/dlmm.go's Decode (including its
// offset=552 jump before the oracle field, reproduced verbatim below) and
// bin_array.go's ParseBinArray.
package meteoradlmm

import (
	"bytes"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// MinPairSize is the 904-byte minimum spec.md §3.2 names.
const MinPairSize = 904

var PairDiscriminator = mustHex("210b3162b565b10d")

type StaticParameters struct {
	BaseFactor               uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	MinBinId                 int32
	MaxBinId                 int32
	ProtocolShare            uint16
	BaseFeePowerFactor       uint8
}

type VariableParameters struct {
	VolatilityAccumulator uint32
	VolatilityReference   uint32
	IndexReference        int32
	LastUpdateTimestamp   int64
}

type Pair struct {
	Pubkey ammtypes.Pubkey

	Static  StaticParameters
	VParams VariableParameters

	BumpSeed  uint8
	PairType  uint8
	ActiveId  int32
	BinStep   uint16
	Status    uint8

	TokenXMint ammtypes.Pubkey
	TokenYMint ammtypes.Pubkey
	ReserveX   ammtypes.Pubkey
	ReserveY   ammtypes.Pubkey
	Oracle     ammtypes.Pubkey

	BinArrayBitmap [16]uint64
}

func DecodePair(buf []byte, pubkey ammtypes.Pubkey) (*Pair, error) {
	if len(buf) < MinPairSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthTooShort, "meteora pair: data shorter than 904 bytes")
	}
	if !bytes.Equal(buf[:8], PairDiscriminator) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "meteora pair: discriminator mismatch")
	}

	p := &Pair{Pubkey: pubkey}
	var err error
	offset := 8

	if p.Static.BaseFactor, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if p.Static.FilterPeriod, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if p.Static.DecayPeriod, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if p.Static.ReductionFactor, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if p.Static.VariableFeeControl, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.Static.MaxVolatilityAccumulator, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.Static.MinBinId, err = binutil.ReadI32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.Static.MaxBinId, err = binutil.ReadI32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.Static.ProtocolShare, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if p.Static.BaseFeePowerFactor, err = binutil.ReadU8(buf, offset); err != nil {
		return nil, err
	}
	offset += 1
	offset += 5 // reserved padding

	if p.VParams.VolatilityAccumulator, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.VParams.VolatilityReference, err = binutil.ReadU32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.VParams.IndexReference, err = binutil.ReadI32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	offset += 4 // reserved padding
	if p.VParams.LastUpdateTimestamp, err = binutil.ReadI64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8
	offset += 8 // reserved padding

	if p.BumpSeed, err = binutil.ReadU8(buf, offset); err != nil {
		return nil, err
	}
	offset += 1
	offset += 2 // binStepSeed
	if p.PairType, err = binutil.ReadU8(buf, offset); err != nil {
		return nil, err
	}
	offset += 1
	if p.ActiveId, err = binutil.ReadI32LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 4
	if p.BinStep, err = binutil.ReadU16LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 2
	if p.Status, err = binutil.ReadU8(buf, offset); err != nil {
		return nil, err
	}
	offset += 1
	offset += 1 // requireBaseFactorSeed
	offset += 2 // baseFactorSeed
	offset += 1 // activationType
	offset += 1 // creatorPoolOnOffControl

	if p.TokenXMint, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32
	if p.TokenYMint, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32
	if p.ReserveX, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32
	if p.ReserveY, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32

	// The running offset is 216 here; the oracle is read at the absolute
	// offset 552 instead, reproducing the teacher's explicit reassignment
	// before the oracle field rather than continuing from the running offset.
	offset = 552
	if p.Oracle, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32

	for i := 0; i < 16; i++ {
		if p.BinArrayBitmap[i], err = binutil.ReadU64LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 8
	}

	return p, nil
}
