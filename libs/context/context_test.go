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

package context_test

import (
	"context"
	"testing"

	vgcontext "code.swapex.io/swapex/libs/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDIsGeneratedOnce(t *testing.T) {
	ctx, id := vgcontext.TraceIDFromContext(context.Background())
	require.NotEmpty(t, id)

	_, again := vgcontext.TraceIDFromContext(ctx)
	assert.Equal(t, id, again)
}

func TestBlockValues(t *testing.T) {
	ctx := context.Background()
	_, err := vgcontext.BlockHeightFromContext(ctx)
	assert.ErrorIs(t, err, vgcontext.ErrBlockHeightMissing)

	ctx = vgcontext.WithBlockHeight(ctx, 42)
	ctx = vgcontext.WithTxHash(ctx, "abcd")
	ctx = vgcontext.WithChainID(ctx, "swapex-local")
	ctx = vgcontext.WithParty(ctx, "0xdead")

	h, err := vgcontext.BlockHeightFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), h)

	hash, err := vgcontext.TxHashFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abcd", hash)

	chain, err := vgcontext.ChainIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "swapex-local", chain)

	party, err := vgcontext.PartyFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xdead", party)

	_, err = vgcontext.PartyFromContext(vgcontext.WithParty(context.Background(), ""))
	assert.ErrorIs(t, err, vgcontext.ErrPartyMissing)
}

func TestRemoteIPAddr(t *testing.T) {
	_, err := vgcontext.RemoteIPAddrFromContext(context.Background())
	assert.ErrorIs(t, err, vgcontext.ErrRemoteIPMissing)

	ip, err := vgcontext.RemoteIPAddrFromContext(vgcontext.WithRemoteIPAddr(context.Background(), "127.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)
}
