// Package raydiumv4 decodes the RaydiumV4-shaped pool account (native
// layout, no discriminator) and its OpenOrders dependency. Grounded on
// nick199910-SolRoute/pkg/pool/raydium/ammPool.go's Decode, which reads
// the same fields sequentially; this decoder instead reads each field at
// spec.md §3.2's named fixed offset, since only a subset of the teacher's
// ~50 fields are load-bearing for the simulator.
package raydiumv4

import (
	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// ExactDataSize is the RaydiumV4 pool account's exact length; the
// dispatcher recognizes this layout by (ownerProgram, exactDataLength)
// since it carries no discriminator, per spec.md §4.1.
const ExactDataSize = 752

type Pool struct {
	Pubkey ammtypes.Pubkey

	Status                 uint64
	BaseDecimal            uint64
	QuoteDecimal           uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64
	BaseNeedTakePnl        uint64
	QuoteNeedTakePnl       uint64
	PoolOpenTime           uint64

	BaseVault       ammtypes.Pubkey
	QuoteVault      ammtypes.Pubkey
	BaseMint        ammtypes.Pubkey
	QuoteMint       ammtypes.Pubkey
	LpMint          ammtypes.Pubkey
	OpenOrders      ammtypes.Pubkey
	MarketId        ammtypes.Pubkey
	MarketProgramId ammtypes.Pubkey
	TargetOrders    ammtypes.Pubkey
	Owner           ammtypes.Pubkey
	LpReserve       uint64
}

func Decode(buf []byte, pubkey ammtypes.Pubkey) (*Pool, error) {
	if len(buf) != ExactDataSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthMismatch, "raydium v4 pool: expected exactly 752 bytes")
	}

	p := &Pool{Pubkey: pubkey}
	var err error

	if p.Status, err = binutil.ReadU64LE(buf, 0); err != nil {
		return nil, err
	}
	if p.BaseDecimal, err = binutil.ReadU64LE(buf, 32); err != nil {
		return nil, err
	}
	if p.QuoteDecimal, err = binutil.ReadU64LE(buf, 40); err != nil {
		return nil, err
	}
	if p.BaseDecimal > 18 || p.QuoteDecimal > 18 {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrFieldOutOfRange, "raydium v4 pool: decimal out of [0,18]")
	}
	if p.SwapFeeNumerator, err = binutil.ReadU64LE(buf, 176); err != nil {
		return nil, err
	}
	if p.SwapFeeDenominator, err = binutil.ReadU64LE(buf, 184); err != nil {
		return nil, err
	}
	if p.BaseNeedTakePnl, err = binutil.ReadU64LE(buf, 192); err != nil {
		return nil, err
	}
	if p.QuoteNeedTakePnl, err = binutil.ReadU64LE(buf, 200); err != nil {
		return nil, err
	}
	if p.PoolOpenTime, err = binutil.ReadU64LE(buf, 224); err != nil {
		return nil, err
	}
	if p.BaseVault, err = binutil.ReadPubkey(buf, 336); err != nil {
		return nil, err
	}
	if p.QuoteVault, err = binutil.ReadPubkey(buf, 368); err != nil {
		return nil, err
	}
	if p.BaseMint, err = binutil.ReadPubkey(buf, 400); err != nil {
		return nil, err
	}
	if p.QuoteMint, err = binutil.ReadPubkey(buf, 432); err != nil {
		return nil, err
	}
	if p.LpMint, err = binutil.ReadPubkey(buf, 464); err != nil {
		return nil, err
	}
	if p.OpenOrders, err = binutil.ReadPubkey(buf, 496); err != nil {
		return nil, err
	}
	if p.MarketId, err = binutil.ReadPubkey(buf, 528); err != nil {
		return nil, err
	}
	if p.MarketProgramId, err = binutil.ReadPubkey(buf, 560); err != nil {
		return nil, err
	}
	if p.TargetOrders, err = binutil.ReadPubkey(buf, 592); err != nil {
		return nil, err
	}
	if p.Owner, err = binutil.ReadPubkey(buf, 688); err != nil {
		return nil, err
	}
	if p.LpReserve, err = binutil.ReadU64LE(buf, 720); err != nil {
		return nil, err
	}

	return p, nil
}
