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

package events

import (
	"context"
	"time"
)

// Time event indicating a change in block time (ie time update).
type Time struct {
	*Base
	blockTime time.Time
}

// NewTime returns a new time Update event.
func NewTime(ctx context.Context, t time.Time) *Time {
	return &Time{
		Base:      newBase(ctx, TimeUpdate),
		blockTime: t,
	}
}

// Time returns the new blocktime.
func (t Time) Time() time.Time {
	return t.blockTime
}

type TimeUpdatePayload struct {
	Timestamp int64 `json:"timestamp"`
}

func (t Time) StreamMessage() *BusEvent {
	return newBusEventFromBase(t.Base, TimeUpdatePayload{Timestamp: t.blockTime.UnixNano()})
}
