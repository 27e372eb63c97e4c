package binutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/binutil"
)

func TestReadU8OutOfRange(t *testing.T) {
	_, err := binutil.ReadU8([]byte{1, 2}, 5)
	require.Error(t, err)
	var de *ammtypes.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ammtypes.DecodeErrLengthTooShort, de.Kind)
}

func TestReadU16LERoundTrip(t *testing.T) {
	v, err := binutil.ReadU16LE([]byte{0x34, 0x12}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
}

func TestReadU32LERoundTrip(t *testing.T) {
	v, err := binutil.ReadU32LE([]byte{0x78, 0x56, 0x34, 0x12}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)
}

func TestReadI32LENegative(t *testing.T) {
	// -1 as i32 LE is 0xffffffff.
	v, err := binutil.ReadI32LE([]byte{0xff, 0xff, 0xff, 0xff}, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestReadU64LERoundTrip(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	v, err := binutil.ReadU64LE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestReadU128LEAssemblesLoAndHi(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 0x01   // lo = 1
	buf[8] = 0x01   // hi = 1
	v, err := binutil.ReadU128LE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Lo)
	assert.Equal(t, uint64(1), v.Hi)
}

func TestReadI128LENegativeTwosComplementFold(t *testing.T) {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = 0xff // all-ones = -1 in two's complement
	}
	v, err := binutil.ReadI128LE(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.Int64())
}

func TestReadPubkeyOutOfRange(t *testing.T) {
	_, err := binutil.ReadPubkey(make([]byte, 16), 0)
	require.Error(t, err)
}

func TestReadVecLenRejectsCountAboveMax(t *testing.T) {
	buf := make([]byte, 4)
	buf[0] = 0xff // n = 255, way above maxLen
	_, _, err := binutil.ReadVecLen(buf, 0, 40, 64)
	require.Error(t, err)
	var de *ammtypes.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ammtypes.DecodeErrFieldOutOfRange, de.Kind)
}

func TestReadVecLenRejectsElementOverrun(t *testing.T) {
	buf := make([]byte, 4+40) // header says 2 elements but only 1 elem worth of bytes follow
	buf[0] = 2
	_, _, err := binutil.ReadVecLen(buf, 0, 40, 64)
	require.Error(t, err)
}

func TestReadVecLenHappyPath(t *testing.T) {
	buf := make([]byte, 4+2*40)
	buf[0] = 2
	count, dataOffset, err := binutil.ReadVecLen(buf, 0, 40, 64)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 4, dataOffset)
}
