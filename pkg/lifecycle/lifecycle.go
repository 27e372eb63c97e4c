// Package lifecycle runs one topology state machine per pool, deciding
// which dependency accounts must be present in pkg/cache before a pool can
// be quoted, and coordinating their bootstrap fetch. Grounded on
// guidebee-SolRoute/pkg/subscription/manager.go's mutex-guarded map of
// per-entity state plus a handler registry, generalized from websocket
// subscriptions to the Unseen/Discovered/Frozen/Active/Refreshing state
// machine spec.md §4.3 names.
package lifecycle

import (
	"sync"

	"github.com/solana-zh/ammengine/pkg/ammtypes"
)

// State names a position in the per-pool topology state machine.
type State uint8

const (
	Unseen State = iota
	Discovered
	Frozen
	Active
	Refreshing
)

func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Discovered:
		return "discovered"
	case Frozen:
		return "frozen"
	case Active:
		return "active"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// FrozenTopology snapshots the dependency set a pool was frozen against,
// per spec.md §4.3.
type FrozenTopology struct {
	PoolPubkey        ammtypes.Pubkey
	Venue             ammtypes.VenueId
	FrozenAtSlot      ammtypes.Slot
	VaultBase         ammtypes.Pubkey
	VaultQuote        ammtypes.Pubkey
	RequiredTickArrays []int32
	RequiredBinArrays  []int64
	AmmConfigPubkey    ammtypes.Pubkey
	TickRangeMin       int32
	TickRangeMax       int32
	BinRangeMin        int64
	BinRangeMax        int64
}

// EventHandler receives every lifecycle transition.
type EventHandler func(ammtypes.LifecycleEvent)

// BootstrapEnqueuer is called with pubkeys that must be fetched out of
// band when a pool enters Discovered with unresolved dependencies. Grounded
// on the BootstrapFetcher interface pkg/ingest defines.
type BootstrapEnqueuer interface {
	EnqueueFetch(pubkeys []ammtypes.Pubkey)
}

// Topology tracks one pool's state machine and its last-frozen snapshot.
type Topology struct {
	PoolPubkey   ammtypes.Pubkey
	Venue        ammtypes.VenueId
	State        State
	DiscoverSlot ammtypes.Slot
	Frozen       *FrozenTopology
	epoch        uint64
}

// Manager owns every pool's Topology, serialized behind a single mutex in
// the teacher's SubscriptionManager style.
type Manager struct {
	mu         sync.RWMutex
	topologies map[ammtypes.Pubkey]*Topology
	handler    EventHandler
	bootstrap  BootstrapEnqueuer
}

func NewManager(bootstrap BootstrapEnqueuer) *Manager {
	return &Manager{
		topologies: make(map[ammtypes.Pubkey]*Topology),
		bootstrap:  bootstrap,
	}
}

func (m *Manager) SetEventHandler(fn EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
}

// Get returns a copy of the current topology for a pool, or (nil, false).
func (m *Manager) Get(pool ammtypes.Pubkey) (Topology, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.topologies[pool]
	if !ok {
		return Topology{}, false
	}
	return *t, true
}

// Discover transitions Unseen -> Discovered on a pool's first successful
// decode, then enqueues its unresolved dependency pubkeys for bootstrap
// fetch, per spec.md §4.3's "Bootstrap loop".
func (m *Manager) Discover(pool ammtypes.Pubkey, venue ammtypes.VenueId, slot ammtypes.Slot, deps []ammtypes.Pubkey, resolved func(ammtypes.Pubkey) bool) {
	m.mu.Lock()
	t, ok := m.topologies[pool]
	if !ok {
		t = &Topology{PoolPubkey: pool, Venue: venue}
		m.topologies[pool] = t
	}
	if t.State != Unseen {
		m.mu.Unlock()
		return
	}
	t.State = Discovered
	t.DiscoverSlot = slot
	handler := m.handler
	bootstrap := m.bootstrap
	m.mu.Unlock()

	m.emit(handler, ammtypes.EventDiscover, pool, slot, "unseen", "discovered", "first successful pool decode")

	if bootstrap == nil {
		return
	}
	var unresolved []ammtypes.Pubkey
	for _, d := range deps {
		if resolved == nil || !resolved(d) {
			unresolved = append(unresolved, d)
		}
	}
	if len(unresolved) > 0 {
		bootstrap.EnqueueFetch(unresolved)
	}
}

// TryFreeze transitions Discovered/Refreshing -> Frozen once allPresent
// reports every named dependency is in cache at slot >= the discover slot.
// Returns true if the transition happened.
func (m *Manager) TryFreeze(pool ammtypes.Pubkey, snapshot FrozenTopology, allPresent bool) bool {
	m.mu.Lock()
	t, ok := m.topologies[pool]
	if !ok || !allPresent || (t.State != Discovered && t.State != Refreshing) {
		m.mu.Unlock()
		return false
	}
	prev := t.State
	t.State = Frozen
	t.Frozen = &snapshot
	handler := m.handler
	m.mu.Unlock()

	m.emit(handler, ammtypes.EventFreeze, pool, snapshot.FrozenAtSlot, prev.String(), "frozen", "all named dependencies present at frozen slot")
	return true
}

// TryActivate transitions Frozen -> Active when a quote request finds every
// named dependency present, recording per-dependency convergence evidence.
func (m *Manager) TryActivate(pool ammtypes.Pubkey, slot ammtypes.Slot, convergence map[string]string) bool {
	m.mu.Lock()
	t, ok := m.topologies[pool]
	if !ok || t.State != Frozen {
		m.mu.Unlock()
		return false
	}
	t.State = Active
	handler := m.handler
	m.mu.Unlock()

	m.emitWithConvergence(handler, ammtypes.EventActivate, pool, slot, "frozen", "active", "first quote request with all deps present", convergence)
	return true
}

// StartRefresh transitions Active -> Refreshing when the active price moves
// outside the frozen coverage window, or a dependency mutation forces the
// window to shift.
func (m *Manager) StartRefresh(pool ammtypes.Pubkey, slot ammtypes.Slot, reason string) bool {
	m.mu.Lock()
	t, ok := m.topologies[pool]
	if !ok || t.State != Active {
		m.mu.Unlock()
		return false
	}
	t.State = Refreshing
	t.epoch++
	handler := m.handler
	m.mu.Unlock()

	m.emit(handler, ammtypes.EventRefreshStart, pool, slot, "active", "refreshing", reason)
	return true
}

func (m *Manager) emit(handler EventHandler, typ ammtypes.LifecycleEventType, pool ammtypes.Pubkey, slot ammtypes.Slot, prev, next, reason string) {
	m.emitWithConvergence(handler, typ, pool, slot, prev, next, reason, nil)
}

func (m *Manager) emitWithConvergence(handler EventHandler, typ ammtypes.LifecycleEventType, pool ammtypes.Pubkey, slot ammtypes.Slot, prev, next, reason string, convergence map[string]string) {
	if handler == nil {
		return
	}
	handler(ammtypes.LifecycleEvent{
		Type:               typ,
		PoolPubkey:         pool,
		Slot:               slot,
		PrevState:          prev,
		NewState:           next,
		Reason:             reason,
		ConvergenceDetails: convergence,
	})
}

// ActiveArrayIndexMeteora derives floor(activeId/70), per spec.md §4.3.
func ActiveArrayIndexMeteora(activeId int32) int64 {
	const binsPerArray = 70
	q := int64(activeId) / binsPerArray
	if activeId%binsPerArray != 0 && activeId < 0 {
		q--
	}
	return q
}

// MeteoraCoverageWindow returns the inclusive [min, max] bin-array index
// range covered at radius R=1 around activeArrayIndex, per spec.md §4.3's
// "coverage window = 3 arrays".
func MeteoraCoverageWindow(activeArrayIndex int64) (min, max int64) {
	return activeArrayIndex - 1, activeArrayIndex + 1
}
