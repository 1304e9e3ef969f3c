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

package subscribers_test

import (
	"context"
	"testing"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/subscribers"
	"code.swapex.io/swapex/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamSubFiltersEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := subscribers.NewStreamSub(ctx, []events.Type{events.SwapEvent}, 10, events.GetPartyIDFilter("bob"))
	assert.Equal(t, []events.Type{events.SwapEvent}, sub.Types())
	assert.False(t, sub.Ack())

	sub.C() <- []events.Event{
		events.NewSwap(ctx, "alice", "CEL", "LUM", num.NewUint(1), num.NewUint(2), 1),
		events.NewSwap(ctx, "bob", "CEL", "LUM", num.NewUint(3), num.NewUint(4), 2),
	}

	select {
	case msg := <-sub.Events():
		require.NotNil(t, msg)
		payload, ok := msg.Event.(events.SwapPayload)
		require.True(t, ok)
		assert.Equal(t, "bob", payload.Party)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	sub.Halt()
	// the output channel is drained and closed once halted
	for range sub.Events() {
	}
}

func TestBasePauseResume(t *testing.T) {
	b := subscribers.NewBase(context.Background(), 1, true)
	b.SetID(7)
	assert.Equal(t, 7, b.ID())
	assert.True(t, b.Ack())

	b.Resume()
	select {
	case <-b.Skip():
		t.Fatal("running subscriber must not skip")
	default:
	}

	b.Pause()
	select {
	case <-b.Skip():
	default:
		t.Fatal("paused subscriber must skip")
	}
	b.Halt()
	<-b.Closed()
}
