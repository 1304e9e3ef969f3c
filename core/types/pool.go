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

package types

import (
	"code.swapex.io/swapex/libs/num"
)

// PoolState is a read-only view of a constant product pool.
type PoolState struct {
	Account     string    `json:"account"`
	Asset0      string    `json:"asset0"`
	Asset1      string    `json:"asset1"`
	Reserve0    *num.Uint `json:"reserve0"`
	Reserve1    *num.Uint `json:"reserve1"`
	TotalShares *num.Uint `json:"total_shares"`
}

// PoolInfo adds the spot prices of both assets to a PoolState. Prices
// are zero while the pool is empty.
type PoolInfo struct {
	PoolState
	Price0 num.Decimal `json:"price0"`
	Price1 num.Decimal `json:"price1"`
}

// IsEmpty returns true when the pool has never been funded or has been
// fully drained.
func (p PoolState) IsEmpty() bool {
	return p.TotalShares == nil || p.TotalShares.IsZero()
}

// Reserve returns the reserve held for the given asset, nil for an
// unknown asset.
func (p PoolState) Reserve(asset string) *num.Uint {
	switch asset {
	case p.Asset0:
		return p.Reserve0.Clone()
	case p.Asset1:
		return p.Reserve1.Clone()
	}
	return nil
}

// LiquidityPosition is a holder's stake in a pool.
type LiquidityPosition struct {
	Party  string      `json:"party"`
	Shares *num.Uint   `json:"shares"`
	Share  num.Decimal `json:"share"`
	// Amounts the shares would currently redeem for.
	Amount0 *num.Uint `json:"amount0"`
	Amount1 *num.Uint `json:"amount1"`
}
