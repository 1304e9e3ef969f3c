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

type LiquidityAdded struct {
	*Base
	Party     string
	Asset0    string
	Asset1    string
	Amount0   *num.Uint
	Amount1   *num.Uint
	Shares    *num.Uint
	Timestamp int64
}

type LiquidityAddedPayload struct {
	Party     string `json:"party"`
	Asset0    string `json:"asset0"`
	Asset1    string `json:"asset1"`
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	Shares    string `json:"shares"`
	Timestamp int64  `json:"timestamp"`
}

func NewLiquidityAdded(ctx context.Context, party, asset0, asset1 string, amount0, amount1, shares *num.Uint, timestamp int64) *LiquidityAdded {
	return &LiquidityAdded{
		Base:      newBase(ctx, LiquidityAddedEvent),
		Party:     party,
		Asset0:    asset0,
		Asset1:    asset1,
		Amount0:   amount0.Clone(),
		Amount1:   amount1.Clone(),
		Shares:    shares.Clone(),
		Timestamp: timestamp,
	}
}

func (l LiquidityAdded) IsParty(id string) bool {
	return l.Party == id
}

func (l LiquidityAdded) IsAsset(id string) bool {
	return l.Asset0 == id || l.Asset1 == id
}

func (l LiquidityAdded) StreamMessage() *BusEvent {
	return newBusEventFromBase(l.Base, LiquidityAddedPayload{
		Party:     l.Party,
		Asset0:    l.Asset0,
		Asset1:    l.Asset1,
		Amount0:   l.Amount0.String(),
		Amount1:   l.Amount1.String(),
		Shares:    l.Shares.String(),
		Timestamp: l.Timestamp,
	})
}

type LiquidityRemoved struct {
	*Base
	Party     string
	Asset0    string
	Asset1    string
	Amount0   *num.Uint
	Amount1   *num.Uint
	Shares    *num.Uint
	Timestamp int64
}

func NewLiquidityRemoved(ctx context.Context, party, asset0, asset1 string, amount0, amount1, shares *num.Uint, timestamp int64) *LiquidityRemoved {
	return &LiquidityRemoved{
		Base:      newBase(ctx, LiquidityRemovedEvent),
		Party:     party,
		Asset0:    asset0,
		Asset1:    asset1,
		Amount0:   amount0.Clone(),
		Amount1:   amount1.Clone(),
		Shares:    shares.Clone(),
		Timestamp: timestamp,
	}
}

func (l LiquidityRemoved) IsParty(id string) bool {
	return l.Party == id
}

func (l LiquidityRemoved) IsAsset(id string) bool {
	return l.Asset0 == id || l.Asset1 == id
}

func (l LiquidityRemoved) StreamMessage() *BusEvent {
	// same shape as an addition, the event type tells them apart
	return newBusEventFromBase(l.Base, LiquidityAddedPayload{
		Party:     l.Party,
		Asset0:    l.Asset0,
		Asset1:    l.Asset1,
		Amount0:   l.Amount0.String(),
		Amount1:   l.Amount1.String(),
		Shares:    l.Shares.String(),
		Timestamp: l.Timestamp,
	})
}

type Swap struct {
	*Base
	Party     string
	AssetIn   string
	AssetOut  string
	AmountIn  *num.Uint
	AmountOut *num.Uint
	Timestamp int64
}

type SwapPayload struct {
	Party     string `json:"party"`
	AssetIn   string `json:"asset_in"`
	AssetOut  string `json:"asset_out"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	Timestamp int64  `json:"timestamp"`
}

func NewSwap(ctx context.Context, party, assetIn, assetOut string, amountIn, amountOut *num.Uint, timestamp int64) *Swap {
	return &Swap{
		Base:      newBase(ctx, SwapEvent),
		Party:     party,
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  amountIn.Clone(),
		AmountOut: amountOut.Clone(),
		Timestamp: timestamp,
	}
}

func (s Swap) IsParty(id string) bool {
	return s.Party == id
}

func (s Swap) IsAsset(id string) bool {
	return s.AssetIn == id || s.AssetOut == id
}

func (s Swap) StreamMessage() *BusEvent {
	return newBusEventFromBase(s.Base, SwapPayload{
		Party:     s.Party,
		AssetIn:   s.AssetIn,
		AssetOut:  s.AssetOut,
		AmountIn:  s.AmountIn.String(),
		AmountOut: s.AmountOut.String(),
		Timestamp: s.Timestamp,
	})
}
