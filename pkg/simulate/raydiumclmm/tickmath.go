package raydiumclmm

import "math/big"

// MinTick and MaxTick bound the tick range the bit-magic table below covers,
// per nick199910-SolRoute/pkg/pool/raydium/clmm_tickerarray.go's
// getSqrtPriceX64FromTick.
const (
	MinTick = -443636
	MaxTick = 443636
)

var maxUint128 = func() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 128)
	return v.Sub(v, big.NewInt(1))
}()

// ratioConstants is the per-bit Q64.64 ratio table for 1.0001^(tick/2),
// reproduced verbatim from the teacher's getSqrtPriceX64FromTick so the
// bit-magic fixed-point approximation matches the on-chain program exactly.
var ratioConstants = []string{
	"18445821805675395072", // bit 0 (odd tick)
	"18444899583751176192", // bit 1
	"18443055278223355904", // bit 2
	"18439367220385607680", // bit 3
	"18431993317065453568", // bit 4
	"18417254355718170624", // bit 5
	"18387811781193609216", // bit 6
	"18329067761203558400", // bit 7
	"18212142134806163456", // bit 8
	"17980523815641700352", // bit 9
	"17526086738831433728", // bit 10
	"16651378430235570176", // bit 11
	"15030750278694412288", // bit 12
	"12247334978884435968", // bit 13
	"8131365268886854656",  // bit 14
	"3584323654725218816",  // bit 15
	"696457651848324352",   // bit 16
	"26294789957507116",    // bit 17
	"37481735321082",       // bit 18
}

const evenRatio = "18446744073709551616" // 2^64, tick 0 baseline for even ticks

// GetSqrtPriceAtTick reproduces the on-chain fixed-point bit-magic
// approximation of sqrt(1.0001^tick) in Q64.64, per spec.md §4.4.3's
// "Compute sqrtPriceTarget at that tick".
func GetSqrtPriceAtTick(tick int32) *big.Int {
	tickAbs := int64(tick)
	if tickAbs < 0 {
		tickAbs = -tickAbs
	}

	var ratio *big.Int
	if tickAbs&0x1 != 0 {
		ratio, _ = new(big.Int).SetString(ratioConstants[0], 10)
	} else {
		ratio, _ = new(big.Int).SetString(evenRatio, 10)
	}

	for bit := 1; bit < len(ratioConstants); bit++ {
		if tickAbs&(int64(1)<<uint(bit)) != 0 {
			mulBy, _ := new(big.Int).SetString(ratioConstants[bit], 10)
			ratio = mulRightShift64(ratio, mulBy)
		}
	}

	if tick > 0 {
		ratio = new(big.Int).Quo(maxUint128, ratio)
	}
	return ratio
}

func mulRightShift64(a, b *big.Int) *big.Int {
	p := new(big.Int).Mul(a, b)
	return p.Rsh(p, 64)
}
