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

package num

import (
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

var (
	dzero      = decimal.Zero
	maxDecimal = decimal.NewFromBigInt(maxU256, 0)
)

func MustDecimalFromString(f string) Decimal {
	d, err := DecimalFromString(f)
	if err != nil {
		panic(err)
	}
	return d
}

func DecimalZero() Decimal {
	return dzero
}

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromUint(&u.u)
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// UintFromDecimal returns the integer part of d as a Uint, or true when
// d is negative or too large.
func UintFromDecimal(d Decimal) (*Uint, bool) {
	if d.IsNegative() || d.GreaterThan(maxDecimal) {
		return UintZero(), true
	}
	return UintFromBig(d.Floor().BigInt())
}

// Ratio returns n/d as a Decimal rounded to the given number of places,
// zero when d is zero.
func Ratio(n, d *Uint, places int32) Decimal {
	if d.IsZero() {
		return dzero
	}
	return DecimalFromUint(n).DivRound(DecimalFromUint(d), places)
}

// ToUnits scales a base-unit amount down by the given number of decimals,
// e.g. an 18 decimals token amount to whole tokens.
func ToUnits(u *Uint, decimals int32) Decimal {
	return DecimalFromUint(u).Shift(-decimals)
}

// FromUnits scales a whole-unit decimal amount up by the given number of
// decimals, truncating anything below the smallest unit.
func FromUnits(d Decimal, decimals int32) (*Uint, bool) {
	return UintFromDecimal(d.Shift(decimals))
}
