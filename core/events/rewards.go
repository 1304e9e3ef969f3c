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

	"code.swapex.io/swapex/libs/num"
)

type RewardsFunded struct {
	*Base
	Party        string
	Asset        string
	Amount       *num.Uint
	Rate         *num.Uint
	Duration     int64
	PeriodFinish int64
	Timestamp    int64
}

type RewardsFundedPayload struct {
	Party        string `json:"party"`
	Asset        string `json:"asset"`
	Amount       string `json:"amount"`
	Rate         string `json:"rate"`
	Duration     int64  `json:"duration"`
	PeriodFinish int64  `json:"period_finish"`
	Timestamp    int64  `json:"timestamp"`
}

func NewRewardsFunded(ctx context.Context, party, asset string, amount, rate *num.Uint, duration, periodFinish, timestamp int64) *RewardsFunded {
	return &RewardsFunded{
		Base:         newBase(ctx, RewardsFundedEvent),
		Party:        party,
		Asset:        asset,
		Amount:       amount.Clone(),
		Rate:         rate.Clone(),
		Duration:     duration,
		PeriodFinish: periodFinish,
		Timestamp:    timestamp,
	}
}

func (r RewardsFunded) IsParty(id string) bool {
	return r.Party == id
}

func (r RewardsFunded) IsAsset(id string) bool {
	return r.Asset == id
}

func (r RewardsFunded) StreamMessage() *BusEvent {
	return newBusEventFromBase(r.Base, RewardsFundedPayload{
		Party:        r.Party,
		Asset:        r.Asset,
		Amount:       r.Amount.String(),
		Rate:         r.Rate.String(),
		Duration:     r.Duration,
		PeriodFinish: r.PeriodFinish,
		Timestamp:    r.Timestamp,
	})
}

// StakeMovement is shared by stake deposits and withdrawals.
type StakeMovement struct {
	*Base
	Party     string
	Asset     string
	Amount    *num.Uint
	Timestamp int64
}

type StakeMovementPayload struct {
	Party     string `json:"party"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

func NewStakeDeposited(ctx context.Context, party, asset string, amount *num.Uint, timestamp int64) *StakeMovement {
	return newStakeMovement(ctx, StakeDepositedEvent, party, asset, amount, timestamp)
}

func NewStakeWithdrawn(ctx context.Context, party, asset string, amount *num.Uint, timestamp int64) *StakeMovement {
	return newStakeMovement(ctx, StakeWithdrawnEvent, party, asset, amount, timestamp)
}

func newStakeMovement(ctx context.Context, t Type, party, asset string, amount *num.Uint, timestamp int64) *StakeMovement {
	return &StakeMovement{
		Base:      newBase(ctx, t),
		Party:     party,
		Asset:     asset,
		Amount:    amount.Clone(),
		Timestamp: timestamp,
	}
}

func (s StakeMovement) IsParty(id string) bool {
	return s.Party == id
}

func (s StakeMovement) IsAsset(id string) bool {
	return s.Asset == id
}

func (s StakeMovement) StreamMessage() *BusEvent {
	return newBusEventFromBase(s.Base, StakeMovementPayload{
		Party:     s.Party,
		Asset:     s.Asset,
		Amount:    s.Amount.String(),
		Timestamp: s.Timestamp,
	})
}

type RewardPaid struct {
	*Base
	Party     string
	Asset     string
	Amount    *num.Uint
	Timestamp int64
}

func NewRewardPaid(ctx context.Context, party, asset string, amount *num.Uint, timestamp int64) *RewardPaid {
	return &RewardPaid{
		Base:      newBase(ctx, RewardPaidEvent),
		Party:     party,
		Asset:     asset,
		Amount:    amount.Clone(),
		Timestamp: timestamp,
	}
}

func (r RewardPaid) IsParty(id string) bool {
	return r.Party == id
}

func (r RewardPaid) IsAsset(id string) bool {
	return r.Asset == id
}

func (r RewardPaid) StreamMessage() *BusEvent {
	return newBusEventFromBase(r.Base, StakeMovementPayload{
		Party:     r.Party,
		Asset:     r.Asset,
		Amount:    r.Amount.String(),
		Timestamp: r.Timestamp,
	})
}
