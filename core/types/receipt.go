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
	"time"

	"code.swapex.io/swapex/libs/num"
)

// Receipt describes the block an operation was recorded in. Result is only
// set for committed operations.
type Receipt struct {
	Height uint64      `json:"height"`
	TxID   string      `json:"tx_id"`
	Time   time.Time   `json:"time"`
	Kind   string      `json:"kind"`
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

type SwapResult struct {
	AssetIn   string    `json:"asset_in"`
	AmountIn  *num.Uint `json:"amount_in"`
	AssetOut  string    `json:"asset_out"`
	AmountOut *num.Uint `json:"amount_out"`
}

type LiquidityResult struct {
	Shares  *num.Uint `json:"shares"`
	Amount0 *num.Uint `json:"amount0"`
	Amount1 *num.Uint `json:"amount1"`
}

type AmountResult struct {
	Asset  string    `json:"asset"`
	Amount *num.Uint `json:"amount"`
}
