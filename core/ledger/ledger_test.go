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

package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	bmocks "code.swapex.io/swapex/core/broker/mocks"
	"code.swapex.io/swapex/core/collateral"
	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/ledger"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/ledger/mocks"
	"code.swapex.io/swapex/core/timeservice"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cel   = "CEL"
	alice = "0x00000000000000000000000000000000000A11CE"
)

var t0 = time.Unix(1000, 0).UTC()

type testLedger struct {
	*ledger.Ledger
	collateral *collateral.Engine
	ts         *timeservice.Svc
	clock      *mocks.MockClock
	sent       [][]events.Event
}

func getTestLedger(t *testing.T) *testLedger {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := bmocks.NewMockInterface(ctrl)
	clock := mocks.NewMockClock(ctrl)

	tl := &testLedger{clock: clock}
	broker.EXPECT().Send(gomock.Any()).AnyTimes()
	broker.EXPECT().SendBatch(gomock.Any()).AnyTimes().Do(func(evts []events.Event) {
		tl.sent = append(tl.sent, evts)
	})

	j, err := journal.New(logging.NewTestLogger(), "")
	require.NoError(t, err)

	buf := ledger.NewEventBuffer()
	ts := timeservice.New(nil)
	col := collateral.New(logging.NewTestLogger(), collateral.NewDefaultConfig(), ts, buf)
	require.NoError(t, col.EnableAsset(context.Background(), types.Asset{ID: cel, Symbol: cel}))

	tl.Ledger = ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig(), j, buf, col, broker, ts, clock)
	tl.collateral = col
	tl.ts = ts
	t.Cleanup(func() { _ = tl.Close() })
	return tl
}

func (tl *testLedger) mint(amount uint64) ledger.Tx {
	return ledger.Tx{
		Kind:  "mint",
		Party: alice,
		Exec: func(ctx context.Context) error {
			_, err := tl.collateral.Mint(ctx, cel, alice, num.NewUint(amount))
			return err
		},
	}
}

func TestCommittedTransaction(t *testing.T) {
	tl := getTestLedger(t)
	tl.clock.EXPECT().Now().Return(t0)

	block, err := tl.Submit(context.Background(), tl.mint(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), block.Height)
	assert.Equal(t, journal.StatusCommitted, block.Status)
	assert.Equal(t, "mint", block.Kind)
	assert.Equal(t, alice, block.Party)
	assert.NotEmpty(t, block.TxID)
	assert.NotEmpty(t, block.StateHash)
	assert.Equal(t, t0, tl.ts.GetTimeNow())

	assert.Equal(t, "100", tl.collateral.BalanceOf(cel, alice).String())

	// the last batch holds the events of the operation only
	require.NotEmpty(t, tl.sent)
	last := tl.sent[len(tl.sent)-1]
	require.Len(t, last, 1)
	assert.Equal(t, events.LedgerMovementsEvent, last[0].Type())
	assert.Equal(t, block.TxID, last[0].TxHash())
	assert.Equal(t, int64(1), last[0].BlockNr())
}

func TestRejectedTransactionRollsBack(t *testing.T) {
	tl := getTestLedger(t)
	tl.clock.EXPECT().Now().Return(t0).Times(2)

	_, err := tl.Submit(context.Background(), tl.mint(100))
	require.NoError(t, err)
	before := tl.collateral.Hash()

	boom := errors.New("boom")
	block, err := tl.Submit(context.Background(), ledger.Tx{
		Kind:  "swap",
		Party: alice,
		Exec: func(ctx context.Context) error {
			if _, err := tl.collateral.Transfer(ctx, cel, alice, types.EngineAccount("pool"), num.NewUint(60)); err != nil {
				return err
			}
			return boom
		},
	})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, block)
	assert.Equal(t, journal.StatusRejected, block.Status)
	assert.Equal(t, "boom", block.Error)

	assert.Equal(t, "100", tl.collateral.BalanceOf(cel, alice).String())
	assert.True(t, tl.collateral.BalanceOf(cel, types.EngineAccount("pool")).IsZero())
	assert.Equal(t, before, tl.collateral.Hash())

	// only the rejection is published
	last := tl.sent[len(tl.sent)-1]
	require.Len(t, last, 1)
	txErr, ok := last[0].(*events.TxErr)
	require.True(t, ok)
	assert.Equal(t, "swap", txErr.Kind())
	assert.Equal(t, "boom", txErr.Error())
}

func TestPanickingOperationIsRejected(t *testing.T) {
	tl := getTestLedger(t)
	tl.clock.EXPECT().Now().Return(t0)

	block, err := tl.Submit(context.Background(), ledger.Tx{
		Kind: "broken",
		Exec: func(ctx context.Context) error {
			_, _ = tl.collateral.Mint(ctx, cel, alice, num.NewUint(5))
			panic("unexpected")
		},
	})
	assert.Error(t, err)
	assert.Equal(t, journal.StatusRejected, block.Status)
	assert.True(t, tl.collateral.BalanceOf(cel, alice).IsZero())
}

func TestBlockTimeNeverGoesBackwards(t *testing.T) {
	tl := getTestLedger(t)
	gomock.InOrder(
		tl.clock.EXPECT().Now().Return(t0.Add(10*time.Second)),
		tl.clock.EXPECT().Now().Return(t0),
		tl.clock.EXPECT().Now().Return(t0.Add(20*time.Second)),
	)

	ctx := context.Background()
	b1, err := tl.Submit(ctx, tl.mint(1))
	require.NoError(t, err)
	b2, err := tl.Submit(ctx, tl.mint(1))
	require.NoError(t, err)
	b3, err := tl.Submit(ctx, tl.mint(1))
	require.NoError(t, err)

	assert.Equal(t, b1.Time, b2.Time)
	assert.True(t, b3.Time.After(b2.Time))

	n, err := tl.Journal().Verify()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestClosedLedger(t *testing.T) {
	tl := getTestLedger(t)
	require.NoError(t, tl.Close())
	_, err := tl.Submit(context.Background(), tl.mint(1))
	assert.ErrorIs(t, err, ledger.ErrLedgerClosed)
}

func TestCollateralFailuresAreFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	col := mocks.NewMockCollateral(ctrl)
	clock := mocks.NewMockClock(ctrl)
	broker := bmocks.NewMockInterface(ctrl)
	j, err := journal.New(logging.NewTestLogger(), "")
	require.NoError(t, err)

	l := ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig(), j, ledger.NewEventBuffer(), col, broker, timeservice.New(nil), clock)
	clock.EXPECT().Now().Return(t0)
	col.EXPECT().StartTx().Return(collateral.ErrTxInProgress)

	assert.Panics(t, func() {
		_, _ = l.Submit(context.Background(), ledger.Tx{Kind: "noop", Exec: func(context.Context) error { return nil }})
	})
}
