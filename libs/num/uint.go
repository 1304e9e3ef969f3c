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
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Uint A wrapper for a big unsigned int.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the
// uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new Uint set to 0.
func UintZero() *Uint {
	return NewUint(0)
}

// UintOne returns a new Uint set to 1.
func UintOne() *Uint {
	return NewUint(1)
}

// MaxUint returns the largest representable Uint.
func MaxUint() *Uint {
	u := &Uint{}
	u.u.SetAllOne()
	return u
}

// UintFromString creates a new Uint from a string
// interpreted using the given base.
// A big.Int is used to read the string, so
// all error related to big.Int parsing applied here.
// will return true if an error/overflow happened.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString creates a new Uint from a string
// interpreted using the given base. It panics on failure.
func MustUintFromString(str string, base int) *Uint {
	u, overflow := UintFromString(str, base)
	if overflow {
		panic("invalid uint: " + str)
	}
	return u
}

// UintFromBig construct a new Uint with a big.Int
// returns true if overflow happened.
func UintFromBig(b *big.Int) (*Uint, bool) {
	if b.Sign() < 0 {
		return UintZero(), true
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// UintFromUint64 allows for the creation of a Uint from a uint64.
func UintFromUint64(ui uint64) *Uint {
	return NewUint(ui)
}

// Uint64 returns the value as uint64 (truncating higher limbs).
func (u Uint) Uint64() uint64 {
	return u.u.Uint64()
}

// IsUint64 tells whether the value fits a uint64.
func (u Uint) IsUint64() bool {
	return u.u.IsUint64()
}

// BigInt returns a big.Int representation of the Uint.
func (u Uint) BigInt() *big.Int {
	return u.u.ToBig()
}

// Set sets the value of u to oth and returns u.
func (u *Uint) Set(oth *Uint) *Uint {
	u.u.Set(&oth.u)
	return u
}

// SetUint64 sets the value of u to a uint64 and returns u.
func (u *Uint) SetUint64(val uint64) *Uint {
	u.u.SetUint64(val)
	return u
}

// Add will add x and y then store the result into u
// this is equivalent to:
// `u = x + y`
// u is returned for convenience, no
// new variable is created.
func (u *Uint) Add(x, y *Uint) *Uint {
	u.u.Add(&x.u, &y.u)
	return u
}

// AddSum adds multiple values at the same time to a given uint
// so x.AddSum(y, z) is equivalent to x + y + z.
func (u *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		if x == nil {
			continue
		}
		u.u.Add(&u.u, &x.u)
	}
	return u
}

// AddOverflow will subtract y to x then store the result
// into u, returns true if an overflow happened.
func (u *Uint) AddOverflow(x, y *Uint) (*Uint, bool) {
	_, ok := u.u.AddOverflow(&x.u, &y.u)
	return u, ok
}

// Sub will subtract y from x then store the result
// into u
// this is equivalent to:
// `u = x - y`
// u is returned for convenience, no
// new variable is created.
func (u *Uint) Sub(x, y *Uint) *Uint {
	u.u.Sub(&x.u, &y.u)
	return u
}

// SubOverflow will subtract y to x then store the result
// into u, returns true if an underflow happened.
func (u *Uint) SubOverflow(x, y *Uint) (*Uint, bool) {
	_, ok := u.u.SubOverflow(&x.u, &y.u)
	return u, ok
}

// Delta will subtract y from x and store the result
// unless x-y overflowed, in which case the neg field will be set
// and the result of y - x is set instead.
func (u *Uint) Delta(x, y *Uint) (*Uint, bool) {
	if x.LT(y) {
		u.u.Sub(&y.u, &x.u)
		return u, true
	}
	u.u.Sub(&x.u, &y.u)
	return u, false
}

// Mul will multiply x and y then store the result
// into u
// this is equivalent to:
// `u = x * y`
// u is returned for convenience, no
// new variable is created.
func (u *Uint) Mul(x, y *Uint) *Uint {
	u.u.Mul(&x.u, &y.u)
	return u
}

// Div will divide x by y then store the result
// into u
// this is equivalent to:
// `u = x / y`
// u is returned for convenience, no
// new variable is created.
// Division by zero yields zero.
func (u *Uint) Div(x, y *Uint) *Uint {
	u.u.Div(&x.u, &y.u)
	return u
}

// Mod sets u to the modulus x%y for y != 0 and returns u.
// If y == 0, u is set to 0.
func (u *Uint) Mod(x, y *Uint) *Uint {
	u.u.Mod(&x.u, &y.u)
	return u
}

// MulDiv sets u to floor(x*y/d) using a 512-bit intermediate product,
// returning true when d is zero or the result does not fit.
func (u *Uint) MulDiv(x, y, d *Uint) (*Uint, bool) {
	if d.IsZero() {
		u.u.Clear()
		return u, true
	}
	_, overflow := u.u.MulDivOverflow(&x.u, &y.u, &d.u)
	return u, overflow
}

// MulDivCeil sets u to ceil(x*y/d), returning true when d is zero
// or the result does not fit.
func (u *Uint) MulDivCeil(x, y, d *Uint) (*Uint, bool) {
	if d.IsZero() {
		u.u.Clear()
		return u, true
	}
	// x*y mod d is needed to know whether to round up
	rem := &uint256.Int{}
	rem.MulMod(&x.u, &y.u, &d.u)
	if _, overflow := u.u.MulDivOverflow(&x.u, &y.u, &d.u); overflow {
		return u, true
	}
	if !rem.IsZero() {
		if _, overflow := u.u.AddOverflow(&u.u, uint256.NewInt(1)); overflow {
			return u, true
		}
	}
	return u, false
}

// Sqrt sets u to floor(sqrt(x)) and returns u.
func (u *Uint) Sqrt(x *Uint) *Uint {
	u.u.Sqrt(&x.u)
	return u
}

// SqrtProduct sets u to floor(sqrt(x * y)) and returns u. The product is
// carried on 512 bits so the result is exact for any pair of 256 bits values.
func (u *Uint) SqrtProduct(x, y *Uint) *Uint {
	var prod uint256.Int
	if _, overflow := prod.MulOverflow(&x.u, &y.u); !overflow {
		u.u.Sqrt(&prod)
		return u
	}
	wide := new(big.Int).Mul(x.BigInt(), y.BigInt())
	// sqrt of a 512 bits value always fits 256 bits
	u.u.SetFromBig(wide.Sqrt(wide))
	return u
}

// Exp sets u = x**y and returns u.
func (u *Uint) Exp(x, y *Uint) *Uint {
	u.u.Exp(&x.u, &y.u)
	return u
}

// Min returns the smallest of x or y.
func Min(x, y *Uint) *Uint {
	if x.LT(y) {
		return x
	}
	return y
}

// Max returns the max of the 2 values.
func Max(x, y *Uint) *Uint {
	if x.GT(y) {
		return x
	}
	return y
}

// Sum just removes the need to write num.NewUint(0).Sum(x, y, z)
// so you can write num.Sum(x, y, z) instead, equivalent to x + y + z.
func Sum(vals ...*Uint) *Uint {
	return UintZero().AddSum(vals...)
}

// LT with check if the value stored in u is
// lesser than oth
// this is equivalent to:
// `u < oth`.
func (u Uint) LT(oth *Uint) bool {
	return u.u.Lt(&oth.u)
}

// LTUint64 with check if the value stored in u is
// lesser than oth
// this is equivalent to:
// `u < oth`.
func (u Uint) LTUint64(oth uint64) bool {
	return u.u.LtUint64(oth)
}

// LTE with check if the value stored in u is
// lesser than or equal to oth
// this is equivalent to:
// `u <= oth`.
func (u Uint) LTE(oth *Uint) bool {
	return u.u.Lt(&oth.u) || u.u.Eq(&oth.u)
}

// EQ with check if the value stored in u is
// equal to oth
// this is equivalent to:
// `u == oth`.
func (u Uint) EQ(oth *Uint) bool {
	return u.u.Eq(&oth.u)
}

// EQUint64 with check if the value stored in u is
// equal to oth.
func (u Uint) EQUint64(oth uint64) bool {
	return u.u.Eq(uint256.NewInt(oth))
}

// NEQ with check if the value stored in u is
// different than oth
// this is equivalent to:
// `u != oth`.
func (u Uint) NEQ(oth *Uint) bool {
	return !u.u.Eq(&oth.u)
}

// GT with check if the value stored in u is
// greater than oth
// this is equivalent to:
// `u > oth`.
func (u Uint) GT(oth *Uint) bool {
	return u.u.Gt(&oth.u)
}

// GTUint64 with check if the value stored in u is
// greater than oth.
func (u Uint) GTUint64(oth uint64) bool {
	return u.u.GtUint64(oth)
}

// GTE with check if the value stored in u is
// greater than or equal to oth
// this is equivalent to:
// `u >= oth`.
func (u Uint) GTE(oth *Uint) bool {
	return u.u.Gt(&oth.u) || u.u.Eq(&oth.u)
}

// IsZero return whether u == 0 or not.
func (u Uint) IsZero() bool {
	return u.u.IsZero()
}

// Copy create a copy of the uint
// this if the equivalent to:
// u = x.
func (u *Uint) Copy(x *Uint) *Uint {
	u.u = x.u
	return u
}

// Clone create copy of this value
// this is the equivalent to:
// x := u.
func (u Uint) Clone() *Uint {
	return &Uint{u.u}
}

// Hex returns the hexadecimal representation
// of the stored value.
func (u Uint) Hex() string {
	return u.u.Hex()
}

// String returns the stored value as a string
// this is internally using big.Int.String().
func (u Uint) String() string {
	return u.u.ToBig().String()
}

// Bytes return the internal representation
// of the Uint as [32]bytes, BigEndian encoded
// array.
func (u Uint) Bytes() [32]byte {
	return u.u.Bytes32()
}

// MarshalText implements encoding.TextMarshaler so values
// round-trip through JSON and TOML as decimal strings.
func (u Uint) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Uint) UnmarshalText(text []byte) error {
	v, overflow := UintFromString(string(text), 10)
	if overflow {
		return fmt.Errorf("invalid unsigned integer %q", string(text))
	}
	u.u = v.u
	return nil
}

// ToDecimal returns the value as a Decimal.
func (u *Uint) ToDecimal() Decimal {
	return DecimalFromUint(u)
}
