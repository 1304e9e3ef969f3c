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

package ledger

import (
	"sync"

	"code.swapex.io/swapex/core/events"
)

// EventBuffer collects the events of the operation being executed. Engines
// send their events to it, they reach the real broker only once the
// operation is committed.
type EventBuffer struct {
	mu   sync.Mutex
	evts []events.Event
}

func (b *EventBuffer) Send(e events.Event) {
	b.mu.Lock()
	b.evts = append(b.evts, e)
	b.mu.Unlock()
}

func (b *EventBuffer) SendBatch(evts []events.Event) {
	b.mu.Lock()
	b.evts = append(b.evts, evts...)
	b.mu.Unlock()
}

func NewEventBuffer() *EventBuffer {
	return &EventBuffer{}
}

// flush empties the buffer and returns what it held.
func (b *EventBuffer) flush() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.evts
	b.evts = nil
	return out
}
