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

package broker

import (
	"context"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/logging"
)

const defaultSendTimeout = time.Second

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.swapex.io/swapex/core/broker Interface

// Interface is what the engines need from the broker.
type Interface interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Subscriber interface allows pushing values to subscribers, can be set to
// a Skip state (temporarily not receiving any events), or closed. Otherwise events are pushed.
type Subscriber interface {
	Push(val ...events.Event)
	Skip() <-chan struct{}
	Closed() <-chan struct{}
	C() chan<- []events.Event
	Types() []events.Type
	SetID(id int)
	ID() int
	Ack() bool
}

type subscription struct {
	Subscriber
	required bool
}

// Broker - the base broker type
// perhaps we can extend this to embed into type-specific brokers.
type Broker struct {
	ctx         context.Context
	log         *logging.Logger
	sendTimeout time.Duration

	mu    sync.Mutex
	tSubs map[events.Type]map[int]*subscription
	// these fields ensure a unique ID for all subscribers, regardless of what event types they subscribe to
	// once the broker context is cancelled, this map will be used to notify all subscribers, who can then
	// close their internal channels. We can then cleanly shut down (not having unclosed channels)
	subs map[int]subscription
	keys []int

	seqGen *gen
}

// New creates a new base broker.
func New(ctx context.Context, log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	timeout := config.SendTimeout.Get()
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	return &Broker{
		ctx:         ctx,
		log:         log,
		sendTimeout: timeout,
		tSubs:       map[events.Type]map[int]*subscription{},
		subs:        map[int]subscription{},
		keys:        []int{},
		seqGen:      newGen(),
	}
}

// ReloadConf updates the log level of the broker.
func (b *Broker) ReloadConf(cfg Config) {
	b.log.Info("reloading configuration")
	if b.log.GetLevel() != cfg.Level.Get() {
		b.log.Info("updating log level",
			logging.String("old", b.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		b.log.SetLevel(cfg.Level.Get())
	}
}

func (b *Broker) sendChannel(sub Subscriber, evts []events.Event) {
	// wait for a max of sendTimeout
	timeout := time.NewTimer(b.sendTimeout)
	defer func() {
		// drain the channel if we managed to leave the function before the timer expired
		if !timeout.Stop() {
			<-timeout.C
		}
	}()
	select {
	case <-b.ctx.Done():
		return
	case <-sub.Closed():
		return
	case sub.C() <- evts:
		return
	case <-timeout.C:
		b.log.Debug("subscriber missed a batch of events",
			logging.Int("subscriber", sub.ID()),
			logging.Int("events", len(evts)),
		)
		return
	}
}

func (b *Broker) sendChannelSync(sub Subscriber, evts []events.Event) bool {
	select {
	case <-b.ctx.Done():
		return false
	case <-sub.Skip():
		return false
	case <-sub.Closed():
		return true
	case sub.C() <- evts:
		return false
	default:
		go b.sendChannel(sub, evts)
		return false
	}
}

// Send sends an event to all subscribers.
func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

// SendBatch sends a slice of events to the subscribers. The events keep
// their order, and get their sequence numbers, in the order they are given.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	b.mu.Lock()
	byType := map[events.Type][]events.Event{}
	order := []events.Type{}
	for _, e := range b.seqGen.setSequence(evts...) {
		t := e.Type()
		if _, ok := byType[t]; !ok {
			order = append(order, t)
		}
		byType[t] = append(byType[t], e)
	}
	b.mu.Unlock()

	for _, t := range order {
		b.dispatch(t, byType[t])
	}
}

func (b *Broker) dispatch(t events.Type, evts []events.Event) {
	b.mu.Lock()
	subs := b.getSubsByType(t)
	b.mu.Unlock()

	unsub := make([]int, 0, len(subs))
	for k, sub := range subs {
		select {
		case <-b.ctx.Done():
			return
		case <-sub.Skip():
			continue
		case <-sub.Closed():
			unsub = append(unsub, k)
		default:
			if sub.required {
				sub.Push(evts...)
			} else if rm := b.sendChannelSync(sub, evts); rm {
				unsub = append(unsub, k)
			}
		}
	}
	if len(unsub) != 0 {
		b.mu.Lock()
		b.rmSubs(unsub...)
		b.mu.Unlock()
	}
}

func (b *Broker) getSubsByType(t events.Type) map[int]*subscription {
	// we add the entire ALL map to type-specific maps, so if set, we can return this map directly
	subs, ok := b.tSubs[t]
	if !ok && t != events.TxErrEvent {
		// if a typed map isn't set (yet), and it's not the error event, we can return
		// ALL subscribers directly instead
		subs = b.tSubs[events.All]
	}
	// we still need to create a copy to keep the race detector happy
	cpy := make(map[int]*subscription, len(subs))
	for k, v := range subs {
		cpy[k] = v
	}
	return cpy
}

// Subscribe registers a new subscriber, returning the key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	k := b.subscribe(s)
	s.SetID(k)
	b.mu.Unlock()
	return k
}

func (b *Broker) SubscribeBatch(subs ...Subscriber) {
	b.mu.Lock()
	for _, s := range subs {
		k := b.subscribe(s)
		s.SetID(k)
	}
	b.mu.Unlock()
}

func (b *Broker) subscribe(s Subscriber) int {
	k := b.getKey()
	sub := subscription{
		Subscriber: s,
		required:   s.Ack(),
	}
	b.subs[k] = sub
	types := sub.Types()
	// filter out weird types values like []events.Type{events.SwapEvent, events.All,}
	// those subscribers subscribe to all events no matter what, so treat them accordingly
	isAll := false
	if len(types) == 0 {
		isAll = true
		types = []events.Type{events.All}
	} else {
		for _, t := range types {
			if t == events.All {
				types = []events.Type{events.All}
				isAll = true
				break
			}
		}
	}
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]*subscription{}
			if !isAll && t != events.TxErrEvent {
				// not the ALL event, so can be added to the map, and as the "all" subscribers should be
				for ak, as := range b.tSubs[events.All] {
					b.tSubs[t][ak] = as
				}
			}
		}
		b.tSubs[t][k] = &sub
	}
	if isAll {
		for t := range b.tSubs {
			// Don't add ALL subs to the map they're already in, and don't add it to the
			// special TxErrEvent map, but we should add them to all other maps
			if t != events.All && t != events.TxErrEvent {
				b.tSubs[t][k] = &sub
			}
		}
	}
	return k
}

// Unsubscribe removes subscriber from broker
// this does not change the state of the subscriber.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	b.rmSubs(k)
	b.mu.Unlock()
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:] // pop first element
		return k
	}
	return len(b.subs) + 1 // add  1 to avoid zero value
}

func (b *Broker) rmSubs(keys ...int) {
	for _, k := range keys {
		// if the sub doesn't exist, this could be a duplicate call
		// we do not want the keys slice to contain duplicate values
		// and so we have to check this first
		s, ok := b.subs[k]
		if !ok {
			continue
		}
		types := s.Types()
		for _, t := range types {
			if t == events.All {
				types = nil
				break
			}
		}
		if len(types) == 0 {
			// remove in all subscribers then
			for _, v := range b.tSubs {
				delete(v, k)
			}
		} else {
			for _, t := range types {
				delete(b.tSubs[t], k) // remove key from typed subs map
			}
		}
		delete(b.subs, k)
		b.keys = append(b.keys, k)
	}
}
