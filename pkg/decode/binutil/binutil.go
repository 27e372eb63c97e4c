// Package binutil provides bounds-checked little-endian integer readers
// shared by every pkg/decode/* decoder, in the style of the closure-based
// readers the pack's other_examples decoders use (readUint64/readPubKey),
// generalized to return ammtypes.DecodeError instead of panicking.
package binutil

import (
	"encoding/binary"
	"math/big"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"lukechampine.com/uint128"
)

// MaxFeeTiers bounds the length prefix of a FeeConfig.feeTiers Vec, per
// spec.md §4.1.
const MaxFeeTiers = 64

func need(buf []byte, offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(buf) {
		return ammtypes.NewDecodeError(ammtypes.DecodeErrLengthTooShort, "buffer too short for field")
	}
	return nil
}

func ReadU8(buf []byte, offset int) (uint8, error) {
	if err := need(buf, offset, 1); err != nil {
		return 0, err
	}
	return buf[offset], nil
}

func ReadU16LE(buf []byte, offset int) (uint16, error) {
	if err := need(buf, offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[offset : offset+2]), nil
}

func ReadU32LE(buf []byte, offset int) (uint32, error) {
	if err := need(buf, offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[offset : offset+4]), nil
}

func ReadI32LE(buf []byte, offset int) (int32, error) {
	v, err := ReadU32LE(buf, offset)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func ReadU64LE(buf []byte, offset int) (uint64, error) {
	if err := need(buf, offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[offset : offset+8]), nil
}

func ReadI64LE(buf []byte, offset int) (int64, error) {
	v, err := ReadU64LE(buf, offset)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadU128LE assembles a little-endian u128 as lo + (hi << 64), matching
// the teacher's own uint128.FromBytes(data[offset:offset+16]) usage
// throughout clmmPool.go/ammPool.go.
func ReadU128LE(buf []byte, offset int) (uint128.Uint128, error) {
	if err := need(buf, offset, 16); err != nil {
		return uint128.Uint128{}, err
	}
	return uint128.FromBytes(buf[offset : offset+16]), nil
}

// ReadI128LE reads a little-endian i128 with a two's-complement sign-bit
// fold: if bit 127 of the unsigned interpretation is set, the signed value
// is the u128 value minus 2^128.
func ReadI128LE(buf []byte, offset int) (*big.Int, error) {
	u, err := ReadU128LE(buf, offset)
	if err != nil {
		return nil, err
	}
	v := u.Big()
	if u.Hi>>63 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		v = new(big.Int).Sub(v, mod)
	}
	return v, nil
}

func ReadPubkey(buf []byte, offset int) (ammtypes.Pubkey, error) {
	var pk ammtypes.Pubkey
	if err := need(buf, offset, 32); err != nil {
		return pk, err
	}
	copy(pk[:], buf[offset:offset+32])
	return pk, nil
}

// ReadVecLen reads a Vec<T>'s u32 LE length prefix at offset, rejecting a
// count that exceeds maxLen or whose element bytes overrun buf.
func ReadVecLen(buf []byte, offset int, elemSize int, maxLen int) (count int, dataOffset int, err error) {
	n, err := ReadU32LE(buf, offset)
	if err != nil {
		return 0, 0, err
	}
	if int(n) > maxLen {
		return 0, 0, ammtypes.NewDecodeError(ammtypes.DecodeErrFieldOutOfRange, "vec length exceeds max")
	}
	dataOffset = offset + 4
	if err := need(buf, dataOffset, int(n)*elemSize); err != nil {
		return 0, 0, ammtypes.NewDecodeError(ammtypes.DecodeErrFieldOutOfRange, "vec element bytes exceed buffer")
	}
	return int(n), dataOffset, nil
}
