// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package events

import (
	"context"
	"fmt"
	"strings"

	vgcontext "code.swapex.io/swapex/libs/context"
)

// Version of the bus event wire format.
const Version = 1

type Type int

// simple interface for event filtering on party ID.
type partyFilterable interface {
	Event
	IsParty(id string) bool
}

// simple interface for event filtering on asset ID.
type assetFilterable interface {
	Event
	IsAsset(id string) bool
}

// Base common denominator all event-bus events share.
type Base struct {
	ctx     context.Context
	traceID string
	chainID string
	txHash  string
	blockNr int64
	seq     uint64
	et      Type
}

// Event - the base event interface type, add sequence ID setter here, because the type assertions in broker
// seem to be a bottleneck. Change its behaviour so as to only set the sequence ID once.
type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
	TxHash() string
	ChainID() string
	Sequence() uint64
	SetSequenceID(s uint64)
	BlockNr() int64
	StreamMessage() *BusEvent
	Replace(context.Context)
}

// BusEvent is the envelope events are streamed and journaled in.
type BusEvent struct {
	Version int         `json:"version"`
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Block   string      `json:"block"`
	ChainID string      `json:"chain_id"`
	TxHash  string      `json:"tx_hash"`
	Event   interface{} `json:"event"`
}

const (
	// All event type -> used by subscribers to just receive all events, has no actual corresponding event payload.
	All Type = iota
	// other event types that DO have corresponding event types.
	TimeUpdate
	LedgerMovementsEvent
	TxErrEvent
	ApprovalEvent
	LiquidityAddedEvent
	LiquidityRemovedEvent
	SwapEvent
	RewardsFundedEvent
	StakeDepositedEvent
	StakeWithdrawnEvent
	RewardPaidEvent
	FaucetWithdrawalEvent
)

var (
	poolEvents = []Type{
		LiquidityAddedEvent,
		LiquidityRemovedEvent,
		SwapEvent,
	}

	rewardEvents = []Type{
		RewardsFundedEvent,
		StakeDepositedEvent,
		StakeWithdrawnEvent,
		RewardPaidEvent,
	}

	eventStrings = map[Type]string{
		All:                   "ALL",
		TimeUpdate:            "TimeUpdate",
		LedgerMovementsEvent:  "LedgerMovements",
		TxErrEvent:            "TxErrEvent",
		ApprovalEvent:         "ApprovalEvent",
		LiquidityAddedEvent:   "LiquidityAddedEvent",
		LiquidityRemovedEvent: "LiquidityRemovedEvent",
		SwapEvent:             "SwapEvent",
		RewardsFundedEvent:    "RewardsFundedEvent",
		StakeDepositedEvent:   "StakeDepositedEvent",
		StakeWithdrawnEvent:   "StakeWithdrawnEvent",
		RewardPaidEvent:       "RewardPaidEvent",
		FaucetWithdrawalEvent: "FaucetWithdrawalEvent",
	}
)

// A base event holds no data, so the constructor will not be called directly.
func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := vgcontext.TraceIDFromContext(ctx)
	cID, _ := vgcontext.ChainIDFromContext(ctx)
	h, _ := vgcontext.BlockHeightFromContext(ctx)
	txHash, _ := vgcontext.TxHashFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		chainID: cID,
		txHash:  txHash,
		blockNr: int64(h),
		et:      t,
	}
}

// Replace updates the event to be based on the new given context.
func (b *Base) Replace(ctx context.Context) {
	nb := newBase(ctx, b.Type())
	*b = *nb
}

// TraceID returns the... traceID obviously.
func (b Base) TraceID() string {
	return b.traceID
}

func (b Base) ChainID() string {
	return b.chainID
}

func (b Base) TxHash() string {
	return b.txHash
}

func (b *Base) SetSequenceID(s uint64) {
	// sequence ID can only be set once
	if b.seq != 0 {
		return
	}
	b.seq = s
}

// Sequence returns event sequence number.
func (b Base) Sequence() uint64 {
	return b.seq
}

// Context returns context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

func (b Base) eventID() string {
	return fmt.Sprintf("%d-%d", b.blockNr, b.seq)
}

// BlockNr returns the current block number.
func (b Base) BlockNr() int64 {
	return b.blockNr
}

// PoolEvents return all the events emitted by the pool engine.
func PoolEvents() []Type {
	return poolEvents
}

// RewardEvents return all the events emitted by the reward engine.
func RewardEvents() []Type {
	return rewardEvents
}

// String get string representation of event type.
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

// TryFromString tries to parse a raw string into an event type, false indicates that.
func TryFromString(s string) (*Type, bool) {
	for k, v := range eventStrings {
		if strings.EqualFold(s, v) {
			return &k, true
		}
	}
	return nil, false
}

func GetPartyIDFilter(pID string) func(Event) bool {
	return func(e Event) bool {
		pe, ok := e.(partyFilterable)
		if !ok {
			return false
		}
		return pe.IsParty(pID)
	}
}

func GetAssetIDFilter(aID string) func(Event) bool {
	return func(e Event) bool {
		ae, ok := e.(assetFilterable)
		if !ok {
			return false
		}
		return ae.IsAsset(aID)
	}
}

func newBusEventFromBase(base *Base, payload interface{}) *BusEvent {
	return &BusEvent{
		Version: Version,
		ID:      base.eventID(),
		Type:    base.Type().String(),
		Block:   base.TraceID(),
		ChainID: base.ChainID(),
		TxHash:  base.TxHash(),
		Event:   payload,
	}
}
