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

package timeservice

import (
	"context"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
)

// Broker is only used to announce time changes.
type Broker interface {
	Send(event events.Event)
}

// Svc represents the ledger time service. Every operation reads the time of
// the block it is executed in from here, never from the wall clock.
type Svc struct {
	mu sync.RWMutex

	broker Broker

	previousTimestamp time.Time
	currentTimestamp  time.Time

	listeners []func(context.Context, time.Time)
}

// New instantiates a new time service.
func New(broker Broker) *Svc {
	return &Svc{
		broker:    broker,
		listeners: []func(context.Context, time.Time){},
	}
}

// SetTimeNow updates the current time and notifies the listeners registered
// through NotifyOnTick.
func (s *Svc) SetTimeNow(ctx context.Context, t time.Time) {
	t = t.UTC()

	s.mu.Lock()
	// We need to cache the last timestamp so we can distribute trades
	// in a block evenly between last timestamp and current timestamp
	if !s.currentTimestamp.IsZero() {
		s.previousTimestamp = s.currentTimestamp
	}
	s.currentTimestamp = t
	// Ensure we always set previousTimestamp it'll be 0 on the first block
	if s.previousTimestamp.IsZero() {
		s.previousTimestamp = t
	}
	listeners := s.listeners
	s.mu.Unlock()

	if s.broker != nil {
		s.broker.Send(events.NewTime(ctx, t))
	}
	for _, f := range listeners {
		f(ctx, t)
	}
}

// GetTimeNow returns the time of the current block.
func (s *Svc) GetTimeNow() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTimestamp
}

// GetTimeLastBatch returns the time of the previous block.
func (s *Svc) GetTimeLastBatch() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previousTimestamp
}

// NotifyOnTick registers callbacks invoked every time the block time moves.
func (s *Svc) NotifyOnTick(fns ...func(context.Context, time.Time)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fns...)
	s.mu.Unlock()
}
