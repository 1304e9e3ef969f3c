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

package events_test

import (
	"context"
	"testing"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/types"
	vgcontext "code.swapex.io/swapex/libs/context"
	"code.swapex.io/swapex/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferResponseDeepClone(t *testing.T) {
	ctx := context.Background()

	tr := []*types.LedgerMovement{
		{
			Entries: []*types.LedgerEntry{
				{
					FromAccount:        "FromAccount",
					ToAccount:          "ToAccount",
					Asset:              "CEL",
					Amount:             num.NewUint(1000),
					Type:               types.TransferTypeTransfer,
					Timestamp:          2000,
					FromAccountBalance: num.NewUint(3000),
					ToAccountBalance:   num.NewUint(4000),
				},
			},
		},
	}

	trEvent := events.NewLedgerMovements(ctx, tr)

	// Change the original values
	tr[0].Entries[0].Amount = num.NewUint(999)
	tr[0].Entries[0].FromAccount = "Changed"
	tr[0].Entries[0].Timestamp = 999
	tr[0].Entries[0].ToAccount = "Changed"
	tr[0].Entries[0].Type = types.TransferTypeMint
	tr[0].Entries[0].FromAccountBalance = num.NewUint(1000)
	tr[0].Entries[0].ToAccountBalance = num.NewUint(1700)

	tr2 := trEvent.LedgerMovements()
	require.Len(t, tr2, 1)
	require.Len(t, tr2[0].Entries, 1)
	e := tr2[0].Entries[0]
	assert.Equal(t, "1000", e.Amount.String())
	assert.Equal(t, "FromAccount", e.FromAccount)
	assert.Equal(t, "ToAccount", e.ToAccount)
	assert.Equal(t, int64(2000), e.Timestamp)
	assert.Equal(t, types.TransferTypeTransfer, e.Type)
	assert.Equal(t, "3000", e.FromAccountBalance.String())
	assert.Equal(t, "4000", e.ToAccountBalance.String())

	// mutating the returned copy does not leak into the event either
	e.Amount.Add(e.Amount, num.NewUint(1))
	assert.Equal(t, "1000", trEvent.LedgerMovements()[0].Entries[0].Amount.String())

	assert.True(t, trEvent.IsParty("FromAccount"))
	assert.False(t, trEvent.IsParty("Changed"))
	assert.True(t, trEvent.IsAsset("CEL"))
}

func TestBaseCarriesBlockContext(t *testing.T) {
	ctx := vgcontext.WithBlockHeight(context.Background(), 12)
	ctx = vgcontext.WithTxHash(ctx, "deadbeef")
	ctx = vgcontext.WithChainID(ctx, "swapex-test")
	ctx = vgcontext.WithTraceID(ctx, "trace")

	evt := events.NewSwap(ctx, "party", "CEL", "LUM", num.NewUint(10), num.NewUint(49), 1)
	evt.SetSequenceID(3)
	// only the first sequence id sticks
	evt.SetSequenceID(4)

	assert.Equal(t, int64(12), evt.BlockNr())
	assert.Equal(t, uint64(3), evt.Sequence())
	assert.Equal(t, events.SwapEvent, evt.Type())

	msg := evt.StreamMessage()
	assert.Equal(t, "12-3", msg.ID)
	assert.Equal(t, "SwapEvent", msg.Type)
	assert.Equal(t, "deadbeef", msg.TxHash)
	assert.Equal(t, "swapex-test", msg.ChainID)
	assert.Equal(t, "trace", msg.Block)
	payload, ok := msg.Event.(events.SwapPayload)
	require.True(t, ok)
	assert.Equal(t, "49", payload.AmountOut)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	evts := []events.Event{
		events.NewFaucetWithdrawal(ctx, "alice", "CEL", num.NewUint(10), 1),
		events.NewRewardPaid(ctx, "bob", "CEL", num.NewUint(10), 1),
		events.NewSwap(ctx, "bob", "LUM", "CEL", num.NewUint(10), num.NewUint(1), 1),
		events.NewTime(ctx, time0()),
	}

	byParty := events.GetPartyIDFilter("bob")
	byAsset := events.GetAssetIDFilter("LUM")

	var parties, assets int
	for _, e := range evts {
		if byParty(e) {
			parties++
		}
		if byAsset(e) {
			assets++
		}
	}
	assert.Equal(t, 2, parties)
	assert.Equal(t, 1, assets)
}

func TestTypeFromString(t *testing.T) {
	et, ok := events.TryFromString("swapevent")
	require.True(t, ok)
	assert.Equal(t, events.SwapEvent, *et)

	_, ok = events.TryFromString("OrderEvent")
	assert.False(t, ok)
}
