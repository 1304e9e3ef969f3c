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
	"code.swapex.io/swapex/libs/num"
)

var (
	feeNumerator   = num.NewUint(995)
	feeDenominator = num.NewUint(1000)
)

// amountOut returns how much of the output asset a swap of amountIn yields
// against the given reserves, after the 0.5% fee is kept by the pool:
//
//	amountInAfterFee = floor(amountIn * 995 / 1000)
//	amountOut = floor(reserveOut * amountInAfterFee / (reserveIn + amountInAfterFee))
func amountOut(amountIn, reserveIn, reserveOut *num.Uint) *num.Uint {
	afterFee, _ := num.UintZero().MulDiv(amountIn, feeNumerator, feeDenominator)
	denom := num.Sum(reserveIn, afterFee)
	if denom.IsZero() {
		return num.UintZero()
	}
	out, _ := num.UintZero().MulDiv(reserveOut, afterFee, denom)
	return out
}

// matchingDeposit returns ceil(amount * reserveOther / reserveOne), the
// amount of the other asset to deposit alongside amount to keep the pool
// ratio. Rounding up favours the pool.
func matchingDeposit(amount, reserveOne, reserveOther *num.Uint) *num.Uint {
	out, _ := num.UintZero().MulDivCeil(amount, reserveOther, reserveOne)
	return out
}

// sharesToMint returns the shares a deposit of (amount0, amount1) is worth.
// The first deposit mints floor(sqrt(amount0 * amount1)), later ones the
// smaller of the two proportional amounts so an unbalanced deposit is only
// credited for its balanced part.
func sharesToMint(amount0, amount1, reserve0, reserve1, totalShares *num.Uint) *num.Uint {
	if totalShares.IsZero() {
		return num.UintZero().SqrtProduct(amount0, amount1)
	}
	s0, _ := num.UintZero().MulDiv(amount0, totalShares, reserve0)
	s1, _ := num.UintZero().MulDiv(amount1, totalShares, reserve1)
	return num.Min(s0, s1)
}

// redeem returns floor(shares * reserve / totalShares).
func redeem(shares, reserve, totalShares *num.Uint) *num.Uint {
	out, _ := num.UintZero().MulDiv(shares, reserve, totalShares)
	return out
}
