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

package pool

import (
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
)

// sharePlaces is the precision pool shares and prices are displayed with.
const sharePlaces = 18

// State returns a copy of the pool reserves and share supply.
func (e *Engine) State() types.PoolState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.PoolState{
		Account:     e.account,
		Asset0:      e.asset0,
		Asset1:      e.asset1,
		Reserve0:    e.reserve0.Clone(),
		Reserve1:    e.reserve1.Clone(),
		TotalShares: e.totalShares.Clone(),
	}
}

// Reserves returns a copy of both reserves, in pair order.
func (e *Engine) Reserves() (*num.Uint, *num.Uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reserve0.Clone(), e.reserve1.Clone()
}

func (e *Engine) TotalShares() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalShares.Clone()
}

func (e *Engine) SharesOf(party string) *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.shares[party]; ok {
		return s.Clone()
	}
	return num.UintZero()
}

// Position returns the shares of party, the fraction of the pool they
// represent and what they would currently redeem for.
func (e *Engine) Position(party string) types.LiquidityPosition {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos := types.LiquidityPosition{
		Party:   party,
		Shares:  num.UintZero(),
		Share:   num.DecimalZero(),
		Amount0: num.UintZero(),
		Amount1: num.UintZero(),
	}
	s, ok := e.shares[party]
	if !ok || e.totalShares.IsZero() {
		return pos
	}
	pos.Shares = s.Clone()
	pos.Share = num.Ratio(s, e.totalShares, sharePlaces)
	pos.Amount0 = redeem(s, e.reserve0, e.totalShares)
	pos.Amount1 = redeem(s, e.reserve1, e.totalShares)
	return pos
}

// SpotPrice returns how many units of the other asset one unit of asset is
// currently worth, ignoring fees and slippage.
func (e *Engine) SpotPrice(asset string) (num.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	reserveIn, reserveOut, _, err := e.sides(asset)
	if err != nil {
		return num.DecimalZero(), err
	}
	if e.totalShares.IsZero() {
		return num.DecimalZero(), ErrPoolEmpty
	}
	return num.Ratio(reserveOut, reserveIn, sharePlaces), nil
}

// PoolShare returns the fraction of the pool owned by party.
func (e *Engine) PoolShare(party string) num.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.shares[party]
	if !ok || e.totalShares.IsZero() {
		return num.DecimalZero()
	}
	return num.Ratio(s, e.totalShares, sharePlaces)
}
