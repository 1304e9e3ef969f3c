// Copyright (c) 2022 Gobalsky Labs Limited
//
// Use of this software is governed by the Business Source License included
// in the LICENSE.VEGA file and at https://www.mariadb.com/bsl11.
//
// Change Date: 18 months from the later of the date of the first publicly
// available Distribution of this version of the repository, and 25 June 2022.
//
// On the date above, in accordance with the Business Source License, use
// of this software will be governed by version 3 or later of the GNU General
// Public License.

package num_test

import (
	"testing"

	"code.swapex.io/swapex/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintFromString(t *testing.T) {
	n, overflow := num.UintFromString("10000000000000000000000", 10)
	require.False(t, overflow)
	assert.Equal(t, "10000000000000000000000", n.String())

	_, overflow = num.UintFromString("-1", 10)
	assert.True(t, overflow)

	_, overflow = num.UintFromString("not a number", 10)
	assert.True(t, overflow)

	// 2^256 does not fit
	_, overflow = num.UintFromString("115792089237316195423570985008687907853269984665640564039457584007913129639936", 10)
	assert.True(t, overflow)
}

func TestUintArithmetic(t *testing.T) {
	a, b := num.NewUint(10), num.NewUint(3)

	assert.Equal(t, "13", num.UintZero().Add(a, b).String())
	assert.Equal(t, "7", num.UintZero().Sub(a, b).String())
	assert.Equal(t, "30", num.UintZero().Mul(a, b).String())
	assert.Equal(t, "3", num.UintZero().Div(a, b).String())
	assert.Equal(t, "1", num.UintZero().Mod(a, b).String())
	assert.Equal(t, "0", num.UintZero().Div(a, num.UintZero()).String())
	assert.Equal(t, "16", num.Sum(a, b, num.NewUint(3)).String())

	_, underflow := num.UintZero().SubOverflow(b, a)
	assert.True(t, underflow)

	d, neg := num.UintZero().Delta(b, a)
	assert.True(t, neg)
	assert.Equal(t, "7", d.String())

	// receiver is the only value mutated
	assert.Equal(t, "10", a.String())
	assert.Equal(t, "3", b.String())
}

func TestUintComparisons(t *testing.T) {
	a, b := num.NewUint(5), num.NewUint(7)
	assert.True(t, a.LT(b))
	assert.True(t, a.LTE(b))
	assert.True(t, a.LTE(a.Clone()))
	assert.True(t, b.GT(a))
	assert.True(t, b.GTE(b.Clone()))
	assert.True(t, a.EQ(num.NewUint(5)))
	assert.True(t, a.NEQ(b))
	assert.True(t, a.EQUint64(5))
	assert.True(t, num.UintZero().IsZero())
	assert.Equal(t, a, num.Min(a, b))
	assert.Equal(t, b, num.Max(a, b))
}

func TestUintMulDiv(t *testing.T) {
	t.Run("floor", func(t *testing.T) {
		r, overflow := num.UintZero().MulDiv(num.NewUint(10), num.NewUint(10), num.NewUint(3))
		require.False(t, overflow)
		assert.Equal(t, "33", r.String())
	})

	t.Run("ceil", func(t *testing.T) {
		r, overflow := num.UintZero().MulDivCeil(num.NewUint(10), num.NewUint(10), num.NewUint(3))
		require.False(t, overflow)
		assert.Equal(t, "34", r.String())

		r, overflow = num.UintZero().MulDivCeil(num.NewUint(10), num.NewUint(9), num.NewUint(3))
		require.False(t, overflow)
		assert.Equal(t, "30", r.String())
	})

	t.Run("intermediate product wider than 256 bits", func(t *testing.T) {
		big := num.MaxUint()
		r, overflow := num.UintZero().MulDiv(big, num.NewUint(6), num.NewUint(6))
		require.False(t, overflow)
		assert.True(t, r.EQ(big))
	})

	t.Run("zero divisor", func(t *testing.T) {
		r, overflow := num.UintZero().MulDiv(num.NewUint(1), num.NewUint(1), num.UintZero())
		assert.True(t, overflow)
		assert.True(t, r.IsZero())
	})
}

func TestUintSqrt(t *testing.T) {
	cases := []struct {
		in, out uint64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{500000000, 22360},
	}
	for _, c := range cases {
		assert.Equal(t, c.out, num.UintZero().Sqrt(num.NewUint(c.in)).Uint64())
	}
}

func TestUintSqrtProduct(t *testing.T) {
	pow2 := func(n uint64) *num.Uint {
		return num.UintZero().Exp(num.NewUint(2), num.NewUint(n))
	}
	t.Run("fits 256 bits", func(t *testing.T) {
		assert.Equal(t, "22360", num.UintZero().SqrtProduct(num.NewUint(10000), num.NewUint(50000)).String())
		assert.True(t, num.UintZero().SqrtProduct(num.UintZero(), num.NewUint(7)).IsZero())
	})

	t.Run("product wider than 256 bits", func(t *testing.T) {
		// 2^201 * 2^101 = 2^302, whose root is exactly 2^151
		got := num.UintZero().SqrtProduct(pow2(201), pow2(101))
		assert.Equal(t, pow2(151).String(), got.String())

		// splitting the root per factor loses precision
		split := num.UintZero().Mul(num.UintZero().Sqrt(pow2(201)), num.UintZero().Sqrt(pow2(101)))
		assert.True(t, split.LT(got))
	})

	t.Run("max values", func(t *testing.T) {
		m := num.MaxUint()
		assert.Equal(t, m.String(), num.UintZero().SqrtProduct(m, m).String())
	})
}

func TestUintText(t *testing.T) {
	u := num.UintZero()
	require.NoError(t, u.UnmarshalText([]byte("5000000000000000000000")))
	assert.Equal(t, "5000000000000000000000", u.String())

	b, err := u.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5000000000000000000000", string(b))

	assert.Error(t, u.UnmarshalText([]byte("-5")))
}

func TestDecimalConversions(t *testing.T) {
	oneToken := num.MustUintFromString("1000000000000000000", 10)
	assert.Equal(t, "1", num.ToUnits(oneToken, 18).String())

	u, overflow := num.FromUnits(num.MustDecimalFromString("2.5"), 18)
	require.False(t, overflow)
	assert.Equal(t, "2500000000000000000", u.String())

	assert.Equal(t, "0.3333", num.Ratio(num.NewUint(1), num.NewUint(3), 4).String())
	assert.True(t, num.Ratio(num.NewUint(1), num.UintZero(), 4).IsZero())

	_, overflow = num.UintFromDecimal(num.DecimalFromInt64(-1))
	assert.True(t, overflow)
}
