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

package broker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"code.swapex.io/swapex/core/broker"
	"code.swapex.io/swapex/core/events"
	vgcontext "code.swapex.io/swapex/libs/context"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSub struct {
	mu    sync.Mutex
	id    int
	types []events.Type
	ack   bool
	ch    chan []events.Event
	recv  []events.Event
	skip  chan struct{}
	done  chan struct{}
}

func newTestSub(ack bool, types ...events.Type) *testSub {
	return &testSub{
		types: types,
		ack:   ack,
		ch:    make(chan []events.Event, 10),
		skip:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

func (s *testSub) Push(evts ...events.Event) {
	s.mu.Lock()
	s.recv = append(s.recv, evts...)
	s.mu.Unlock()
}

func (s *testSub) received() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event{}, s.recv...)
}

func (s *testSub) Skip() <-chan struct{}    { return s.skip }
func (s *testSub) Closed() <-chan struct{}  { return s.done }
func (s *testSub) C() chan<- []events.Event { return s.ch }
func (s *testSub) Types() []events.Type     { return s.types }
func (s *testSub) SetID(id int)             { s.id = id }
func (s *testSub) ID() int                  { return s.id }
func (s *testSub) Ack() bool                { return s.ack }

func getBroker(t *testing.T) *broker.Broker {
	t.Helper()
	return broker.New(context.Background(), logging.NewTestLogger(), broker.NewDefaultConfig())
}

func swapEvt(ctx context.Context, party string) events.Event {
	return events.NewSwap(ctx, party, "CEL", "LUM", num.NewUint(1), num.NewUint(1), 0)
}

func TestSubscribe(t *testing.T) {
	t.Run("typed subscriber only receives its types", testTypedSubscriber)
	t.Run("all subscriber receives everything but tx errors", testAllSubscriber)
	t.Run("unsubscribe stops delivery and recycles keys", testUnsubscribe)
	t.Run("non acking subscribers receive batches on their channel", testChannelDelivery)
	t.Run("closed subscribers are removed", testClosedSubscriber)
}

func testTypedSubscriber(t *testing.T) {
	b := getBroker(t)
	ctx := context.Background()
	sub := newTestSub(true, events.SwapEvent)
	k := b.Subscribe(sub)
	assert.Equal(t, k, sub.ID())

	b.Send(swapEvt(ctx, "alice"))
	b.Send(events.NewFaucetWithdrawal(ctx, "alice", "CEL", num.NewUint(1), 0))

	got := sub.received()
	require.Len(t, got, 1)
	assert.Equal(t, events.SwapEvent, got[0].Type())
}

func testAllSubscriber(t *testing.T) {
	b := getBroker(t)
	ctx := context.Background()
	all := newTestSub(true)
	errs := newTestSub(true, events.TxErrEvent)
	b.SubscribeBatch(all, errs)
	assert.NotEqual(t, all.ID(), errs.ID())

	b.SendBatch([]events.Event{
		swapEvt(ctx, "alice"),
		events.NewTime(ctx, time.Unix(10, 0)),
		events.NewTxErrEvent(ctx, assert.AnError, "alice", "swap"),
	})

	assert.Len(t, all.received(), 2)
	require.Len(t, errs.received(), 1)
	assert.Equal(t, events.TxErrEvent, errs.received()[0].Type())
}

func testUnsubscribe(t *testing.T) {
	b := getBroker(t)
	ctx := context.Background()
	sub := newTestSub(true, events.SwapEvent)
	k := b.Subscribe(sub)
	b.Unsubscribe(k)
	// a second call is a no-op
	b.Unsubscribe(k)

	b.Send(swapEvt(ctx, "alice"))
	assert.Empty(t, sub.received())

	other := newTestSub(true)
	assert.Equal(t, k, b.Subscribe(other))
}

func testChannelDelivery(t *testing.T) {
	b := getBroker(t)
	ctx := context.Background()
	sub := newTestSub(false, events.SwapEvent)
	b.Subscribe(sub)

	b.Send(swapEvt(ctx, "alice"))
	select {
	case evts := <-sub.ch:
		require.Len(t, evts, 1)
	case <-time.After(time.Second):
		t.Fatal("no batch received")
	}
}

func testClosedSubscriber(t *testing.T) {
	b := getBroker(t)
	ctx := context.Background()
	sub := newTestSub(false, events.SwapEvent)
	b.Subscribe(sub)
	close(sub.done)

	b.Send(swapEvt(ctx, "alice"))
	b.Send(swapEvt(ctx, "alice"))
	assert.Empty(t, sub.ch)
}

func TestSequenceNumbers(t *testing.T) {
	b := getBroker(t)
	sub := newTestSub(true)
	b.Subscribe(sub)

	ctx1 := vgcontext.WithBlockHeight(context.Background(), 1)
	ctx2 := vgcontext.WithBlockHeight(context.Background(), 2)
	b.SendBatch([]events.Event{swapEvt(ctx1, "a"), swapEvt(ctx1, "b")})
	b.Send(swapEvt(ctx2, "c"))

	got := sub.received()
	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].Sequence())
	assert.Equal(t, uint64(2), got[1].Sequence())
	// new block, sequence restarts
	assert.Equal(t, uint64(1), got[2].Sequence())
}
