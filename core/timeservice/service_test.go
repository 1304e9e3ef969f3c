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

package timeservice_test

import (
	"context"
	"testing"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/timeservice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	evts []events.Event
}

func (r *recordingBroker) Send(e events.Event) {
	r.evts = append(r.evts, e)
}

func TestSetTimeNow(t *testing.T) {
	b := &recordingBroker{}
	svc := timeservice.New(b)
	assert.True(t, svc.GetTimeNow().IsZero())

	var ticks []time.Time
	svc.NotifyOnTick(func(_ context.Context, t time.Time) {
		ticks = append(ticks, t)
	})

	t1 := time.Unix(100, 0)
	t2 := time.Unix(110, 0)
	ctx := context.Background()

	svc.SetTimeNow(ctx, t1)
	assert.True(t, t1.Equal(svc.GetTimeNow()))
	assert.True(t, t1.Equal(svc.GetTimeLastBatch()))

	svc.SetTimeNow(ctx, t2)
	assert.True(t, t2.Equal(svc.GetTimeNow()))
	assert.True(t, t1.Equal(svc.GetTimeLastBatch()))

	require.Len(t, ticks, 2)
	require.Len(t, b.evts, 2)
	tu, ok := b.evts[1].(*events.Time)
	require.True(t, ok)
	assert.True(t, t2.Equal(tu.Time()))
}
