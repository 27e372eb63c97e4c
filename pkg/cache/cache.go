// Package cache holds the single coherent record per (pubkey, kind),
// rejecting out-of-order writes and emitting a trace for every apply.
// Grounded on guidebee-SolRoute/pkg/subscription/pool_cache.go's
// sync.RWMutex-guarded map idiom, generalized from a pool-keyed cache to
// the write-version-ordered record cache spec.md §4.2 names.
package cache

import (
	"sync"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
)

// ApplyResult reports what apply did to the cache.
type ApplyResult uint8

const (
	Applied ApplyResult = iota
	Rejected
	Deleted
)

func (r ApplyResult) String() string {
	switch r {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// TraceEvent is emitted for every apply, per spec.md §4.2's setTraceHandler
// contract.
type TraceEvent struct {
	AppliedAtMs      int64
	CacheType        string
	Pubkey           ammtypes.Pubkey
	Slot             ammtypes.Slot
	WriteVersion     ammtypes.WriteVersion
	CacheKey         string
	DataLength       int
	Source           ammtypes.UpdateSource
	Rejected         bool
	ExistingSlot     ammtypes.Slot
	Evicted          bool
}

// TraceHandler receives every apply/evict event. Implementations must not
// block the caller for long; the cache calls it synchronously from apply.
type TraceHandler func(TraceEvent)

// Record is one cached (pubkey, kind) entry: the decoded value plus the
// bytes it was decoded from, so a topology rebuild never re-runs a decoder.
type Record struct {
	Pubkey       ammtypes.Pubkey
	Kind         string
	Value        any
	RawData      []byte
	Slot         ammtypes.Slot
	WriteVersion ammtypes.WriteVersion
	Source       ammtypes.UpdateSource
}

// Update is the candidate apply() receives.
type Update struct {
	Pubkey       ammtypes.Pubkey
	Kind         string
	Owner        ammtypes.Pubkey
	Value        any
	RawData      []byte
	Slot         ammtypes.Slot
	WriteVersion ammtypes.WriteVersion
	Source       ammtypes.UpdateSource
	// PoolKey groups this record under a pool for getByPool, e.g. a
	// tick-array or bin-array's owning pool. Zero value means this record
	// is not pool-scoped (pools, configs).
	PoolKey ammtypes.Pubkey
	// ArrayIndex distinguishes sibling dependency records under the same
	// PoolKey (tick-array/bin-array index). Ignored when PoolKey is zero.
	ArrayIndex int64
}

type poolDepKey struct {
	pool       ammtypes.Pubkey
	kind       string
	arrayIndex int64
}

// Cache is safe for concurrent use; every public method takes the single
// mutex, matching the teacher's PoolCache shape.
type Cache struct {
	mu   sync.RWMutex
	byPk map[ammtypes.Pubkey]*Record
	byPd map[poolDepKey]ammtypes.Pubkey

	trace TraceHandler
	nowMs func() int64
}

// New constructs an empty Cache. nowMs supplies the trace timestamp source
// so callers can inject a deterministic clock in tests.
func New(nowMs func() int64) *Cache {
	return &Cache{
		byPk:  make(map[ammtypes.Pubkey]*Record),
		byPd:  make(map[poolDepKey]ammtypes.Pubkey),
		nowMs: nowMs,
	}
}

// SetTraceHandler registers the sink apply/evict events are delivered to.
func (c *Cache) SetTraceHandler(fn TraceHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace = fn
}

// Apply admits or rejects a candidate update per the ordering rule in
// spec.md §4.2: a candidate replaces the incumbent iff its (slot,
// writeVersion) strictly exceeds the incumbent's; ties are rejected, never
// errored.
func (c *Cache) Apply(u Update) ApplyResult {
	c.mu.Lock()

	existing, had := c.byPk[u.Pubkey]
	result := Applied
	var existingSlot ammtypes.Slot
	if had {
		existingSlot = existing.Slot
		if !newer(u.Slot, u.WriteVersion, existing.Slot, existing.WriteVersion) {
			result = Rejected
		}
	}

	if result == Applied {
		c.byPk[u.Pubkey] = &Record{
			Pubkey:       u.Pubkey,
			Kind:         u.Kind,
			Value:        u.Value,
			RawData:      u.RawData,
			Slot:         u.Slot,
			WriteVersion: u.WriteVersion,
			Source:       u.Source,
		}
		if u.PoolKey != (ammtypes.Pubkey{}) {
			c.byPd[poolDepKey{pool: u.PoolKey, kind: u.Kind, arrayIndex: u.ArrayIndex}] = u.Pubkey
		}
	}

	handler := c.trace
	nowMs := c.timeNow()
	c.mu.Unlock()

	if handler != nil {
		handler(TraceEvent{
			AppliedAtMs:  nowMs,
			CacheType:    u.Kind,
			Pubkey:       u.Pubkey,
			Slot:         u.Slot,
			WriteVersion: u.WriteVersion,
			CacheKey:     string(u.Pubkey[:]),
			DataLength:   len(u.RawData),
			Source:       u.Source,
			Rejected:     result == Rejected,
			ExistingSlot: existingSlot,
		})
	}

	return result
}

// Get returns the newest snapshot for pubkey, or (nil, false).
func (c *Cache) Get(pubkey ammtypes.Pubkey) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byPk[pubkey]
	return r, ok
}

// GetByPool returns the dependency record of the given kind/arrayIndex
// registered under poolKey, for tick-array/bin-array lookups keyed by
// (pool, arrayIndex) per spec.md §4.2.
func (c *Cache) GetByPool(poolKey ammtypes.Pubkey, kind string, arrayIndex int64) (*Record, bool) {
	c.mu.RLock()
	pk, ok := c.byPd[poolDepKey{pool: poolKey, kind: kind, arrayIndex: arrayIndex}]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(pk)
}

// Evict removes a pool-scoped dependency record from the (pool, kind,
// index) index without deleting the underlying bytes from byPk, per
// spec.md §4.2's "eviction is a trace event ... not a deletion of the
// underlying bytes". The record remains fetchable by raw pubkey via Get.
func (c *Cache) Evict(poolKey ammtypes.Pubkey, kind string, arrayIndex int64) {
	c.mu.Lock()
	key := poolDepKey{pool: poolKey, kind: kind, arrayIndex: arrayIndex}
	pk, ok := c.byPd[key]
	if ok {
		delete(c.byPd, key)
	}
	var rec *Record
	if ok {
		rec = c.byPk[pk]
	}
	handler := c.trace
	nowMs := c.timeNow()
	c.mu.Unlock()

	if ok && handler != nil {
		var slot ammtypes.Slot
		var wv ammtypes.WriteVersion
		if rec != nil {
			slot, wv = rec.Slot, rec.WriteVersion
		}
		handler(TraceEvent{
			AppliedAtMs:  nowMs,
			CacheType:    kind,
			Pubkey:       pk,
			Slot:         slot,
			WriteVersion: wv,
			CacheKey:     string(pk[:]),
			Evicted:      true,
		})
	}
}

// Size returns the number of distinct pubkeys currently cached.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPk)
}

func (c *Cache) timeNow() int64 {
	if c.nowMs != nil {
		return c.nowMs()
	}
	return 0
}

func newer(candSlot ammtypes.Slot, candWv ammtypes.WriteVersion, curSlot ammtypes.Slot, curWv ammtypes.WriteVersion) bool {
	if candSlot != curSlot {
		return candSlot > curSlot
	}
	return candWv > curWv
}
