package raydiumclmm_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/decode/raydiumclmm"
)

func poolFixture() []byte {
	buf := make([]byte, raydiumclmm.PoolSize)
	copy(buf[:8], raydiumclmm.PoolDiscriminator)
	buf[9] = 0xAA  // ammConfig[0]
	buf[73] = 0xBB // tokenMint0[0]
	buf[233] = 9   // mintDecimals0
	buf[234] = 6   // mintDecimals1
	binary.LittleEndian.PutUint16(buf[235:237], 60) // tickSpacing
	buf[237] = 0x01                                 // liquidity lo byte
	binary.LittleEndian.PutUint32(buf[269:273], uint32(int32(-100))) // tickCurrent
	binary.LittleEndian.PutUint64(buf[309:317], 7) // protocolFeesToken0
	buf[389] = 1                                   // status
	binary.LittleEndian.PutUint64(buf[904:912], 0xFF) // tickArrayBitmap[0]
	return buf
}

func TestDecodePoolRejectsWrongLength(t *testing.T) {
	_, err := raydiumclmm.Decode(make([]byte, 10), ammtypes.Pubkey{})
	require.Error(t, err)
}

func TestDecodePoolRejectsWrongDiscriminator(t *testing.T) {
	buf := poolFixture()
	buf[0] ^= 0xff
	_, err := raydiumclmm.Decode(buf, ammtypes.Pubkey{})
	require.Error(t, err)
}

func TestDecodePoolHappyPath(t *testing.T) {
	buf := poolFixture()
	p, err := raydiumclmm.Decode(buf, ammtypes.Pubkey{})
	require.NoError(t, err)

	assert.Equal(t, byte(0xAA), p.AmmConfig[0])
	assert.Equal(t, byte(0xBB), p.TokenMint0[0])
	assert.Equal(t, uint8(9), p.MintDecimals0)
	assert.Equal(t, uint8(6), p.MintDecimals1)
	assert.Equal(t, uint16(60), p.TickSpacing)
	assert.Equal(t, uint64(1), p.Liquidity.Lo)
	assert.Equal(t, int32(-100), p.TickCurrent)
	assert.Equal(t, uint64(7), p.ProtocolFeesToken0)
	assert.Equal(t, uint8(1), p.Status)
	assert.Equal(t, uint64(0xFF), p.TickArrayBitmap[0])
}

func ammConfigFixture() []byte {
	buf := make([]byte, raydiumclmm.AmmConfigSize)
	copy(buf[:8], raydiumclmm.AmmConfigDiscriminator)
	offset := 8 + 1 + 2 + 32
	binary.LittleEndian.PutUint32(buf[offset:offset+4], 100) // protocolFeeRate
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:offset+4], 2_500) // tradeFeeRate
	offset += 4
	binary.LittleEndian.PutUint16(buf[offset:offset+2], 60) // tickSpacing
	offset += 2
	binary.LittleEndian.PutUint32(buf[offset:offset+4], 40) // fundFeeRate
	return buf
}

func TestDecodeAmmConfigHappyPath(t *testing.T) {
	buf := ammConfigFixture()
	c, err := raydiumclmm.DecodeAmmConfig(buf, ammtypes.Pubkey{})
	require.NoError(t, err)

	assert.Equal(t, uint32(2_500), c.TradeFeeRate)
	assert.Equal(t, uint16(60), c.TickSpacing)
	assert.Equal(t, uint32(100), c.ProtocolFeeRate)
	assert.Equal(t, uint32(40), c.FundFeeRate)
}

func tickArrayFixture() []byte {
	buf := make([]byte, raydiumclmm.TickArraySize)
	copy(buf[:8], raydiumclmm.TickArrayDiscriminator)
	buf[8] = 0xCC // poolId[0]
	binary.LittleEndian.PutUint32(buf[40:44], uint32(int32(-60))) // startTickIndex

	pos := 44
	binary.LittleEndian.PutUint32(buf[pos:pos+4], uint32(int32(-60))) // ticks[0].Index
	binary.LittleEndian.PutUint64(buf[pos+4:pos+12], uint64(uint64(^uint64(0)))) // liquidityNet = -1 (low half)
	binary.LittleEndian.PutUint64(buf[pos+12:pos+20], ^uint64(0))                // liquidityNet = -1 (high half)
	buf[pos+20] = 0x01                                                          // liquidityGross lo byte nonzero
	return buf
}

func TestDecodeTickArrayHappyPath(t *testing.T) {
	buf := tickArrayFixture()
	ta, err := raydiumclmm.DecodeTickArray(buf, ammtypes.Pubkey{})
	require.NoError(t, err)

	assert.Equal(t, byte(0xCC), ta.PoolId[0])
	assert.Equal(t, int32(-60), ta.StartTickIndex)
	assert.Equal(t, int32(-60), ta.Ticks[0].Index)
	assert.Equal(t, int64(-1), ta.Ticks[0].LiquidityNet.Int64())
	assert.True(t, ta.Ticks[0].Initialized())
	assert.False(t, ta.Ticks[1].Initialized(), "an untouched tick slot must report uninitialized")
}

func TestStartTickIndexForHandlesNegativeTicks(t *testing.T) {
	// spacing 60, 60 ticks/array => 3600-wide arrays.
	assert.Equal(t, int32(0), raydiumclmm.StartTickIndexFor(100, 60))
	assert.Equal(t, int32(-3600), raydiumclmm.StartTickIndexFor(-1, 60))
	assert.Equal(t, int32(-3600), raydiumclmm.StartTickIndexFor(-3600, 60))
}

func TestPdaTickArraySeedIsBigEndian(t *testing.T) {
	seed := raydiumclmm.PdaTickArraySeed(-60)
	want := [4]byte{0xFF, 0xFF, 0xFF, 0xC4} // -60 as big-endian two's complement i32
	assert.Equal(t, want, seed)
}
