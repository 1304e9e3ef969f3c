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

package subscribers

import (
	"context"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
)

type Base struct {
	ctx     context.Context
	cfunc   context.CancelFunc
	mu      sync.Mutex
	halt    sync.Once
	sCh     chan struct{}
	ch      chan []events.Event
	ack     bool
	running bool
	id      int
}

func NewBase(ctx context.Context, buf int, ack bool) *Base {
	ctx, cfunc := context.WithCancel(ctx)
	b := &Base{
		ctx:     ctx,
		cfunc:   cfunc,
		sCh:     make(chan struct{}),
		ch:      make(chan []events.Event, buf),
		ack:     ack,
		running: !ack, // assume the implementation will start a routine asap
	}
	if b.ack {
		go b.cleanup()
	}
	return b
}

func (b *Base) cleanup() {
	<-b.ctx.Done()
	b.Halt()
}

func (b *Base) Ack() bool {
	return b.ack
}

func (b *Base) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		b.running = false
		close(b.sCh)
	}
}

func (b *Base) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		b.sCh = make(chan struct{})
		b.running = true
	}
}

func (b *Base) C() chan<- []events.Event {
	return b.ch
}

func (b *Base) Closed() <-chan struct{} {
	return b.ctx.Done()
}

func (b *Base) Skip() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sCh
}

// Halt is called by the broker on shutdown, this closes the open channels.
func (b *Base) Halt() {
	b.halt.Do(b.doHalt)
}

func (b *Base) doHalt() {
	// allow attempted writes during shutdown, unless this is an acking sub, with a potential blocking channel
	defer func() {
		if !b.ack {
			time.Sleep(20 * time.Millisecond) // add sleep to avoid race (send on closed channel), 20ms should be plenty
		}
		close(b.ch) // close the event channel after pause (skip) and cfunc (closed) are toggled
	}()
	b.cfunc() // cancels the subscriber context, which breaks the loop
	b.Pause() // close the skip channel
}

func (b *Base) SetID(id int) {
	b.id = id
}

func (b *Base) ID() int {
	return b.id
}
