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

	"code.swapex.io/swapex/core/events"
)

// StreamEvent is the subset of events a stream subscriber can forward.
type StreamEvent interface {
	events.Event
	StreamMessage() *events.BusEvent
}

// StreamSub forwards the committed events matching its types and filters
// to a consumer, e.g. a websocket connection.
type StreamSub struct {
	*Base
	types   []events.Type
	filters []func(events.Event) bool
	out     chan *events.BusEvent
}

// NewStreamSub creates a subscriber delivering the stream messages of the
// requested event types. An empty types slice subscribes to everything.
func NewStreamSub(ctx context.Context, types []events.Type, buf int, filters ...func(events.Event) bool) *StreamSub {
	if buf <= 0 {
		buf = 100
	}
	s := &StreamSub{
		Base:    NewBase(ctx, buf, false),
		types:   types,
		filters: filters,
		out:     make(chan *events.BusEvent, buf),
	}
	go s.loop(s.ctx)
	return s
}

func (s *StreamSub) loop(ctx context.Context) {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case evts, ok := <-s.ch:
			if !ok {
				return
			}
			s.forward(ctx, evts)
		}
	}
}

func (s *StreamSub) forward(ctx context.Context, evts []events.Event) {
	for _, e := range evts {
		if !s.accept(e) {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case s.out <- e.StreamMessage():
		}
	}
}

func (s *StreamSub) accept(e events.Event) bool {
	for _, f := range s.filters {
		if !f(e) {
			return false
		}
	}
	return true
}

// Push is only used by acking subscribers, a stream never acks.
func (s *StreamSub) Push(evts ...events.Event) {
	s.forward(s.ctx, evts)
}

// Events returns the channel stream messages are delivered on. It is
// closed once the subscriber is halted.
func (s *StreamSub) Events() <-chan *events.BusEvent {
	return s.out
}

func (s *StreamSub) Types() []events.Type {
	return s.types
}
