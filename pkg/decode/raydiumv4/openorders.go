package raydiumv4

import (
	"bytes"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

// OpenOrdersSize is the exact 3228-byte length spec.md §3.2 names for the
// order-book hybrid's OpenOrders account. The teacher never decodes this
// account's body (it only stores the pubkey for instruction building);
// this decoder is new, grounded in the fixed-offset style every other
// decoder in this tree uses.
const OpenOrdersSize = 3228

var openOrdersMagic = []byte("serum")

type OpenOrders struct {
	Pubkey          ammtypes.Pubkey
	Version         uint8
	Market          ammtypes.Pubkey
	Owner           ammtypes.Pubkey
	BaseTokenFree   uint64
	BaseTokenTotal  uint64
	QuoteTokenFree  uint64
	QuoteTokenTotal uint64
}

func DecodeOpenOrders(buf []byte, pubkey ammtypes.Pubkey) (*OpenOrders, error) {
	if len(buf) != OpenOrdersSize {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrLengthMismatch, "open orders: expected exactly 3228 bytes")
	}
	if !bytes.Equal(buf[0:5], openOrdersMagic) {
		return nil, ammtypes.NewDecodeError(ammtypes.DecodeErrDiscriminatorMismatch, "open orders: missing serum magic")
	}

	oo := &OpenOrders{Pubkey: pubkey}
	var err error
	if oo.Version, err = binutil.ReadU8(buf, 5); err != nil {
		return nil, err
	}
	if oo.Market, err = binutil.ReadPubkey(buf, 13); err != nil {
		return nil, err
	}
	if oo.Owner, err = binutil.ReadPubkey(buf, 45); err != nil {
		return nil, err
	}
	if oo.BaseTokenFree, err = binutil.ReadU64LE(buf, 77); err != nil {
		return nil, err
	}
	if oo.BaseTokenTotal, err = binutil.ReadU64LE(buf, 85); err != nil {
		return nil, err
	}
	if oo.QuoteTokenFree, err = binutil.ReadU64LE(buf, 93); err != nil {
		return nil, err
	}
	if oo.QuoteTokenTotal, err = binutil.ReadU64LE(buf, 101); err != nil {
		return nil, err
	}
	return oo, nil
}
