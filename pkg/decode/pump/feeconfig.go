package pump

import (
	"bytes"
	"sort"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// FeeConfigDiscriminator is the Anchor discriminator for FeeConfig, per
// spec.md §3.2.
var FeeConfigDiscriminator = mustHex("8f3492bbdb7b4c9b")

const feeTierSize = 40

// FlatFees is the fallback fee schedule used when no tier's threshold is
// at or below the estimated market cap.
type FlatFees struct {
	LpBps          uint64
	ProtocolBps    uint64
	CoinCreatorBps uint64
}

// Tier is one 40-byte entry of FeeConfig.feeTiers. The field order matches
// spec.md §3.2 verbatim; see DESIGN.md "Open Question decisions" #1 for
// why this order was chosen over an alternative byte mapping.
type Tier struct {
	MarketCapLamportsThreshold uint64
	CoinCreatorFeeBps          uint64
	LpFeeBps                   uint64
	ProtocolFeeBps             uint64
	ExtraU64                   uint64
}

type FeeConfig struct {
	Pubkey    ammtypes.Pubkey
	Bump      uint8
	Admin     ammtypes.Pubkey
	FlatFees  FlatFees
	FeeTiers  []Tier
}

func DecodeFeeConfig(buf []byte, pubkey ammtypes.Pubkey) (*FeeConfig, error) {
	if len(buf) < 8 {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthTooShort, "fee config: data shorter than discriminator")
	}
	if !bytes.Equal(buf[:8], FeeConfigDiscriminator) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "fee config: discriminator mismatch")
	}

	fc := &FeeConfig{Pubkey: pubkey}
	var err error
	offset := 8

	if fc.Bump, err = binutil.ReadU8(buf, offset); err != nil {
		return nil, err
	}
	offset++
	if fc.Admin, err = binutil.ReadPubkey(buf, offset); err != nil {
		return nil, err
	}
	offset += 32

	if fc.FlatFees.LpBps, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8
	if fc.FlatFees.ProtocolBps, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8
	if fc.FlatFees.CoinCreatorBps, err = binutil.ReadU64LE(buf, offset); err != nil {
		return nil, err
	}
	offset += 8

	count, dataOffset, err := binutil.ReadVecLen(buf, offset, feeTierSize, binutil.MaxFeeTiers)
	if err != nil {
		return nil, err
	}
	fc.FeeTiers = make([]Tier, 0, count)
	for i := 0; i < count; i++ {
		base := dataOffset + i*feeTierSize
		var t Tier
		if t.MarketCapLamportsThreshold, err = binutil.ReadU64LE(buf, base); err != nil {
			return nil, err
		}
		if t.CoinCreatorFeeBps, err = binutil.ReadU64LE(buf, base+8); err != nil {
			return nil, err
		}
		if t.LpFeeBps, err = binutil.ReadU64LE(buf, base+16); err != nil {
			return nil, err
		}
		if t.ProtocolFeeBps, err = binutil.ReadU64LE(buf, base+24); err != nil {
			return nil, err
		}
		if t.ExtraU64, err = binutil.ReadU64LE(buf, base+32); err != nil {
			return nil, err
		}
		fc.FeeTiers = append(fc.FeeTiers, t)
	}

	// Invariant (spec.md §3.3/§3.2): feeTiers is stored sorted ascending by
	// threshold post-decode.
	sort.Slice(fc.FeeTiers, func(i, j int) bool {
		return fc.FeeTiers[i].MarketCapLamportsThreshold < fc.FeeTiers[j].MarketCapLamportsThreshold
	})

	return fc, nil
}

// SelectTier returns the highest tier whose threshold is <= marketCap
// (lower-bound selection per spec.md §4.4.1/§8), or the first tier if
// marketCap is below every threshold. ok is false iff FeeTiers is empty.
func (fc *FeeConfig) SelectTier(marketCapLamports uint64) (tier Tier, ok bool) {
	if len(fc.FeeTiers) == 0 {
		return Tier{}, false
	}
	best := fc.FeeTiers[0]
	for _, t := range fc.FeeTiers {
		if t.MarketCapLamportsThreshold <= marketCapLamports {
			best = t
		} else {
			break
		}
	}
	return best, true
}
