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

package logging

import (
	"fmt"
	"time"

	"code.swapex.io/swapex/libs/num"

	"go.uber.org/zap"
)

// Binary constructs a field that carries an opaque binary blob.
func Binary(key string, val []byte) zap.Field {
	return zap.Binary(key, val)
}

// Bool constructs a field that carries a bool.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Duration constructs a field with the given key and value.
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Error constructs a field with the given error as value and "error" as key.
func Error(val error) zap.Field {
	return zap.Error(val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value.
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// String constructs a field with the given key and value.
func String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and value.
func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

// Time display a time.
func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

// BigUint display a num.Uint as a string.
func BigUint(key string, val *num.Uint) zap.Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// Decimal display a num.Decimal as a string.
func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

// Party constructs a field with the party key.
func Party(party string) zap.Field {
	return zap.String("party", party)
}

// AssetID constructs a field with the asset key.
func AssetID(asset string) zap.Field {
	return zap.String("asset", asset)
}

// TxID constructs a field with the tx-id key.
func TxID(id string) zap.Field {
	return zap.String("tx-id", id)
}

// Reflect constructs a field by running reflection over all the
// field of value passed as a parameter.
func Reflect(key string, val interface{}) zap.Field {
	return zap.Reflect(key, val)
}

// Stringer constructs a field from a fmt.Stringer.
func Stringer(key string, val fmt.Stringer) zap.Field {
	return zap.Stringer(key, val)
}
