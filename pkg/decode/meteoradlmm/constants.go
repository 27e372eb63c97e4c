package meteoradlmm

import "encoding/hex"

// BinsPerArray is the fixed bin count packed into each BinArray account,
// grounded on nick199910-SolRoute/pkg/pool/meteora/bin_array.go's [70]Bin.
const BinsPerArray = 70

// binRecordSize is 144 bytes: amountX(8)+amountY(8)+price(16)+
// liquiditySupply(16)+rewardPerTokenStored(2*16)+feeAmountXPerTokenStored(16)+
// feeAmountYPerTokenStored(16)+amountXIn(16)+amountYIn(16), matching the
// teacher's ParseBinArray field walk exactly.
const binRecordSize = 144

// BinArraySize is the exact byte length of a BinArray account: an 8-byte
// discriminator, a 48-byte header (index:8, version:1, padding:7, lbPair:32),
// and 70 bin records.
const BinArraySize = 8 + 48 + BinsPerArray*binRecordSize

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
