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

package encoding_test

import (
	"testing"
	"time"

	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationText(t *testing.T) {
	d := encoding.Duration{}
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Get())

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(b))

	assert.Error(t, d.UnmarshalFlag("soon"))
}

func TestLogLevelText(t *testing.T) {
	l := encoding.LogLevel{}
	require.NoError(t, l.UnmarshalFlag("debug"))
	assert.Equal(t, logging.DebugLevel, l.Get())

	b, err := l.MarshalText()
	require.NoError(t, err)
	require.NoError(t, l.UnmarshalText(b))
	assert.Equal(t, logging.DebugLevel, l.Get())
}

func TestBoolFlag(t *testing.T) {
	var b encoding.Bool
	require.NoError(t, b.UnmarshalFlag("true"))
	assert.True(t, bool(b))
	assert.Error(t, b.UnmarshalFlag("yes"))
}

func TestUintText(t *testing.T) {
	var u encoding.Uint
	assert.True(t, u.Get().IsZero())

	require.NoError(t, u.UnmarshalText([]byte("10000000000000000000000")))
	assert.Equal(t, "10000000000000000000000", u.Get().String())

	b, err := u.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000000", string(b))

	assert.Error(t, u.UnmarshalFlag("-3"))
}
