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
	"testing"

	"code.swapex.io/swapex/libs/num"

	"github.com/stretchr/testify/assert"
)

func TestSharesToMintOnFirstDeposit(t *testing.T) {
	pow2 := func(n uint64) *num.Uint {
		return num.UintZero().Exp(num.NewUint(2), num.NewUint(n))
	}
	zero := num.UintZero()

	t.Run("geometric mean", func(t *testing.T) {
		got := sharesToMint(num.NewUint(10000), num.NewUint(50000), zero, zero, zero)
		assert.Equal(t, "22360", got.String())
	})

	t.Run("exact when the product overflows 256 bits", func(t *testing.T) {
		got := sharesToMint(pow2(201), pow2(101), zero, zero, zero)
		assert.Equal(t, pow2(151).String(), got.String())
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := num.MaxUint(), num.NewUint(3)
		assert.Equal(t,
			sharesToMint(a, b, zero, zero, zero).String(),
			sharesToMint(b, a, zero, zero, zero).String(),
		)
	})
}

func TestSharesToMintProportional(t *testing.T) {
	got := sharesToMint(num.NewUint(3000), num.NewUint(20000), num.NewUint(10000), num.NewUint(50000), num.NewUint(22360))
	// CEL side is the smaller: 3000 * 22360 / 10000
	assert.Equal(t, "6708", got.String())
}
