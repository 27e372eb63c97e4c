package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
	"github.com/solana-zh/ammengine/pkg/cache"
)

func pk(b byte) ammtypes.Pubkey {
	var p ammtypes.Pubkey
	p[0] = b
	return p
}

func TestApplyAcceptsNewerSlot(t *testing.T) {
	c := cache.New(func() int64 { return 0 })
	p := pk(1)

	res := c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: 1, Slot: 10, WriteVersion: 0})
	assert.Equal(t, cache.Applied, res)

	res = c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: 2, Slot: 11, WriteVersion: 0})
	assert.Equal(t, cache.Applied, res)

	rec, ok := c.Get(p)
	require.True(t, ok)
	assert.Equal(t, 2, rec.Value)
}

func TestApplyRejectsStaleSlot(t *testing.T) {
	c := cache.New(func() int64 { return 0 })
	p := pk(1)

	c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: "fresh", Slot: 10, WriteVersion: 5})
	res := c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: "stale", Slot: 9, WriteVersion: 99})
	assert.Equal(t, cache.Rejected, res)

	rec, ok := c.Get(p)
	require.True(t, ok)
	assert.Equal(t, "fresh", rec.Value)
}

func TestApplyRejectsEqualSlotLowerWriteVersion(t *testing.T) {
	c := cache.New(func() int64 { return 0 })
	p := pk(1)

	c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: "v2", Slot: 10, WriteVersion: 2})
	res := c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: "v1", Slot: 10, WriteVersion: 1})
	assert.Equal(t, cache.Rejected, res)
}

func TestApplyRejectsExactTie(t *testing.T) {
	c := cache.New(func() int64 { return 0 })
	p := pk(1)

	c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: "first", Slot: 10, WriteVersion: 2})
	res := c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: "second", Slot: 10, WriteVersion: 2})
	assert.Equal(t, cache.Rejected, res)

	rec, _ := c.Get(p)
	assert.Equal(t, "first", rec.Value, "a tie must not replace the incumbent")
}

func TestGetByPoolAndEvict(t *testing.T) {
	c := cache.New(func() int64 { return 0 })
	pool := pk(1)
	tickArray := pk(2)

	c.Apply(cache.Update{
		Pubkey: tickArray, Kind: "raydium_clmm.tick_array", Value: "ticks",
		Slot: 1, PoolKey: pool, ArrayIndex: 60,
	})

	rec, ok := c.GetByPool(pool, "raydium_clmm.tick_array", 60)
	require.True(t, ok)
	assert.Equal(t, "ticks", rec.Value)

	c.Evict(pool, "raydium_clmm.tick_array", 60)

	_, ok = c.GetByPool(pool, "raydium_clmm.tick_array", 60)
	assert.False(t, ok, "evict must remove the pool-dependency index entry")

	_, ok = c.Get(tickArray)
	assert.True(t, ok, "evict must not delete the underlying record, only the pool index")
}

func TestTraceHandlerReceivesApplyAndRejectEvents(t *testing.T) {
	c := cache.New(func() int64 { return 42 })
	var events []cache.TraceEvent
	c.SetTraceHandler(func(e cache.TraceEvent) { events = append(events, e) })

	p := pk(1)
	c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: 1, Slot: 10, WriteVersion: 0})
	c.Apply(cache.Update{Pubkey: p, Kind: "pump.pool", Value: 2, Slot: 5, WriteVersion: 0})

	require.Len(t, events, 2)
	assert.False(t, events[0].Rejected)
	assert.True(t, events[1].Rejected)
	assert.Equal(t, int64(42), events[1].AppliedAtMs)
}

func TestSize(t *testing.T) {
	c := cache.New(func() int64 { return 0 })
	assert.Equal(t, 0, c.Size())

	c.Apply(cache.Update{Pubkey: pk(1), Kind: "pump.pool", Slot: 1})
	c.Apply(cache.Update{Pubkey: pk(2), Kind: "pump.pool", Slot: 1})
	assert.Equal(t, 2, c.Size())
}
