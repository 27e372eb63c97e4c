// Package ammtypes holds the identifiers, records and interfaces shared
// across every layer of the engine: pubkeys, venue ids, ingress/egress
// records, and the sentinel errors the quoter and cache return.
package ammtypes

import (
	"encoding/hex"
)

// Pubkey is a 32-byte Solana account identifier. Equality is byte equality.
type Pubkey [32]byte

// Hex returns the lowercase hex form used as a map key wherever a string
// key is required (pkg/cache indexes tick-array and bin-array dependencies
// by a (pool, kind, arrayIndex) struct key instead).
func (p Pubkey) Hex() string {
	return hex.EncodeToString(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// PubkeyFromHex parses a lowercase-hex pubkey previously produced by Hex.
func PubkeyFromHex(s string) (Pubkey, error) {
	var pk Pubkey
	b, err := hex.DecodeString(s)
	if err != nil {
		return pk, err
	}
	if len(b) != 32 {
		return pk, errInvalidPubkeyLength
	}
	copy(pk[:], b)
	return pk, nil
}

// VenueId names one of the four mirrored DEX venues.
type VenueId uint8

const (
	VenueUnknown VenueId = iota
	VenuePumpSwap
	VenueRaydiumV4
	VenueRaydiumClmm
	VenueMeteoraDlmm
)

func (v VenueId) String() string {
	switch v {
	case VenuePumpSwap:
		return "pump_swap"
	case VenueRaydiumV4:
		return "raydium_v4"
	case VenueRaydiumClmm:
		return "raydium_clmm"
	case VenueMeteoraDlmm:
		return "meteora_dlmm"
	default:
		return "unknown"
	}
}

// Slot identifies a ledger position; WriteVersion tie-breaks equal-slot
// writes from the same stream.
type Slot = uint64
type WriteVersion = uint64

// UpdateSource tags where an account-update record originated, per §6.
type UpdateSource uint8

const (
	SourceStream UpdateSource = iota
	SourceBootstrap
	SourceRpc
)

func (s UpdateSource) String() string {
	switch s {
	case SourceStream:
		return "grpc"
	case SourceBootstrap:
		return "bootstrap"
	case SourceRpc:
		return "rpc-fetch"
	default:
		return "unknown"
	}
}

// AccountUpdate is the ingress record of spec §6: a raw account mutation
// delivered by an external stream consumer or bootstrap RPC.
type AccountUpdate struct {
	Pubkey       Pubkey
	Owner        Pubkey
	Data         []byte
	Slot         Slot
	WriteVersion WriteVersion
	Lamports     uint64
	Source       UpdateSource
	Deleted      bool
}

// TxUpdate is the ingress tx-update record of §6. Only the lamports/
// token-balance deltas are consumed by the core; Message is opaque.
type TxUpdate struct {
	Signature          [64]byte
	Slot               Slot
	Message            []byte
	PreLamports        []uint64
	PostLamports       []uint64
	PreTokenBalances   []TokenBalance
	PostTokenBalances  []TokenBalance
	Fee                uint64
	Err                string
}

type TokenBalance struct {
	AccountIndex int
	Mint         Pubkey
	Amount       uint64
}

// Direction names which side of a pool a swap moves value through.
type Direction uint8

const (
	DirectionBaseToQuote Direction = iota // sell base / token0->token1
	DirectionQuoteToBase                  // buy base / token1->token0
)

// QuoteRequest is the egress quote request record of §6.
type QuoteRequest struct {
	PoolPubkey              Pubkey
	AmountIn                uint64
	Direction               Direction
	MarketCapHintLamports   uint64
}

// FeeBreakdown reports the lp/protocol/coinCreator split of the fee taken
// on a quote.
type FeeBreakdown struct {
	Lp          uint64
	Protocol    uint64
	CoinCreator uint64
}

// QuoteResponse is the egress quote response record of §6.
type QuoteResponse struct {
	AmountOut            uint64
	FeeBreakdown         FeeBreakdown
	SimulatedTickCurrent *int32
	SimulatedActiveId    *int32
	TopologyFrozenAtSlot Slot
	// Diagnostic carries the residual between the 25bps and 24bps BUY
	// fee-placement hypotheses (PumpSwap only); see DESIGN.md Open
	// Question 3. Nil for venues that do not have this ambiguity.
	Diagnostic *BuyFeeDiagnostic
}

type BuyFeeDiagnostic struct {
	AmountOut25Bps uint64
	AmountOut24Bps uint64
	ResidualAbs    uint64
}

// LifecycleEventType names a topology transition, per §4.3/§6.
type LifecycleEventType uint8

const (
	EventDiscover LifecycleEventType = iota
	EventFreeze
	EventActivate
	EventRefreshStart
)

func (e LifecycleEventType) String() string {
	switch e {
	case EventDiscover:
		return "discover"
	case EventFreeze:
		return "freeze"
	case EventActivate:
		return "activate"
	case EventRefreshStart:
		return "refresh_start"
	default:
		return "unknown"
	}
}

// LifecycleEvent is the egress lifecycle event record of §6.
type LifecycleEvent struct {
	Type               LifecycleEventType
	PoolPubkey         Pubkey
	Slot               Slot
	PrevState          string
	NewState           string
	Reason             string
	Epoch              uint64
	ConvergenceDetails map[string]string
}
