// Package mathutil holds the integer-exact helpers the pumpswap, raydiumv4
// and meteoradlmm simulators share (raydiumclmm works in math/big
// instead): floor mul-div over a 128-bit intermediate and
// saturating subtraction, per spec.md §4.4's "all simulators are pure,
// deterministic, integer-only" contract.
package mathutil

import "math/bits"

// MulDivFloor computes floor(a*b/denom), widening through a 128-bit
// intermediate product so reserve*amount never overflows uint64.
func MulDivFloor(a, b, denom uint64) uint64 {
	if denom == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, denom)
	return q
}

// SatSub returns max(0, a-b), per spec.md §4.4.2's sat_sub.
func SatSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
