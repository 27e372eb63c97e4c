package meteoradlmm

import (
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
	"lukechampine.com/uint128"
)

type Bin struct {
	AmountX                  uint64
	AmountY                  uint64
	Price                    uint128.Uint128
	LiquiditySupply          uint128.Uint128
	RewardPerTokenStored     [2]uint128.Uint128
	FeeAmountXPerTokenStored uint128.Uint128
	FeeAmountYPerTokenStored uint128.Uint128
	AmountXIn                uint128.Uint128
	AmountYIn                uint128.Uint128
}

type BinArray struct {
	Pubkey ammtypes.Pubkey
	Index  int64
	LbPair ammtypes.Pubkey
	Bins   [BinsPerArray]Bin
}

// LowerUpperBinID returns the inclusive [lower, upper] active-id range this
// array covers, per spec.md §4.4's bin-array addressing scheme.
func (ba *BinArray) LowerUpperBinID() (lower, upper int32) {
	lower = int32(ba.Index) * BinsPerArray
	upper = lower + BinsPerArray - 1
	return lower, upper
}

func DecodeBinArray(buf []byte, pubkey ammtypes.Pubkey) (*BinArray, error) {
	if len(buf) != BinArraySize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthMismatch, "meteora bin array: unexpected account length")
	}

	ba := &BinArray{Pubkey: pubkey}
	var err error
	offset := 8

	index, err := binutil.ReadI64LE(buf, offset)
	if err != nil {
		return nil, err
	}
	ba.Index = index
	offset += 8
	offset += 1 // version
	offset += 7 // padding

	if ba.LbPair, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32

	for i := 0; i < BinsPerArray; i++ {
		var b Bin
		if b.AmountX, err = binutil.ReadU64LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 8
		if b.AmountY, err = binutil.ReadU64LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 8
		if b.Price, err = binutil.ReadU128LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 16
		if b.LiquiditySupply, err = binutil.ReadU128LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 16
		for j := 0; j < 2; j++ {
			if b.RewardPerTokenStored[j], err = binutil.ReadU128LE(buf, offset); err != nil {
				return nil, err
			}
			offset += 16
		}
		if b.FeeAmountXPerTokenStored, err = binutil.ReadU128LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 16
		if b.FeeAmountYPerTokenStored, err = binutil.ReadU128LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 16
		if b.AmountXIn, err = binutil.ReadU128LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 16
		if b.AmountYIn, err = binutil.ReadU128LE(buf, offset); err != nil {
			return nil, err
		}
		offset += 16

		ba.Bins[i] = b
	}

	return ba, nil
}
