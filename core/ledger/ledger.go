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
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/ledger/journal"
	vgcontext "code.swapex.io/swapex/libs/context"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"

	"github.com/google/uuid"
)

var ErrLedgerClosed = errors.New("ledger is closed")

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.swapex.io/swapex/core/ledger Collateral,Clock

// Collateral is the part of the asset ledger the runtime drives: every
// operation runs inside a collateral transaction.
type Collateral interface {
	StartTx() error
	CommitTx() error
	RollbackTx() error
	Hash() []byte
}

// Broker receives the events of committed operations.
type Broker interface {
	SendBatch(evts []events.Event)
	Send(event events.Event)
}

// TimeService is updated with the time of every block.
type TimeService interface {
	SetTimeNow(ctx context.Context, t time.Time)
}

// Clock is the source of block times.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Tx is an operation submitted to the ledger.
type Tx struct {
	Kind  string
	Party string
	Exec  func(ctx context.Context) error
}

// Ledger runs every operation in a total order, each one atomically: it
// either commits along with all its events, or fails leaving no trace but a
// rejected block and a TxErr event.
type Ledger struct {
	log *logging.Logger
	cfg Config

	collateral  Collateral
	broker      Broker
	timeService TimeService
	journal     *journal.Journal
	clock       Clock
	buf         *EventBuffer

	mu       sync.Mutex
	lastTime time.Time
	closed   bool
}

// New creates a ledger runtime. The engines driven by the ledger must send
// their events to buf. A nil clock uses the wall clock.
func New(log *logging.Logger, cfg Config, j *journal.Journal, buf *EventBuffer, collateral Collateral, broker Broker, ts TimeService, clock Clock) *Ledger {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	if clock == nil {
		clock = wallClock{}
	}

	l := &Ledger{
		log:         log,
		cfg:         cfg,
		collateral:  collateral,
		broker:      broker,
		timeService: ts,
		journal:     j,
		clock:       clock,
		buf:         buf,
	}
	if head, err := j.Head(); err == nil {
		l.lastTime = head.Time
	}
	metrics.LedgerHeightSet(j.Height())
	return l
}

// ReloadConf updates the internal configuration of the ledger.
func (l *Ledger) ReloadConf(cfg Config) {
	l.log.Info("reloading configuration")
	if l.log.GetLevel() != cfg.Level.Get() {
		l.log.Info("updating log level",
			logging.String("old", l.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		l.log.SetLevel(cfg.Level.Get())
	}
	l.cfg.Level = cfg.Level
}

// Journal returns the underlying block journal.
func (l *Ledger) Journal() *journal.Journal {
	return l.journal
}

// Submit executes tx and returns the block recording it. The error returned
// is the one of the operation, the block is returned either way.
func (l *Ledger) Submit(ctx context.Context, tx Tx) (*journal.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLedgerClosed
	}
	defer metrics.StartTx(tx.Kind)()

	now := l.clock.Now().UTC()
	// block times never go backwards
	if now.Before(l.lastTime) {
		now = l.lastTime
	}
	l.lastTime = now

	txID := uuid.NewString()
	ctx = vgcontext.WithBlockHeight(ctx, l.journal.Height()+1)
	ctx = vgcontext.WithChainID(ctx, l.cfg.ChainID)
	ctx = vgcontext.WithTxHash(ctx, txID)
	ctx = vgcontext.WithParty(ctx, tx.Party)
	ctx, _ = vgcontext.TraceIDFromContext(ctx)

	l.timeService.SetTimeNow(ctx, now)

	if err := l.collateral.StartTx(); err != nil {
		l.log.Panic("could not open collateral transaction", logging.Error(err))
	}

	var evts []events.Event
	status := journal.StatusCommitted
	txErr := l.exec(ctx, tx)
	if txErr != nil {
		if err := l.collateral.RollbackTx(); err != nil {
			l.log.Panic("could not roll back collateral transaction", logging.Error(err))
		}
		l.buf.flush()
		status = journal.StatusRejected
		evts = []events.Event{events.NewTxErrEvent(ctx, txErr, tx.Party, tx.Kind)}
		l.log.Debug("transaction rejected",
			logging.TxID(txID),
			logging.String("kind", tx.Kind),
			logging.Party(tx.Party),
			logging.Error(txErr),
		)
	} else {
		if err := l.collateral.CommitTx(); err != nil {
			l.log.Panic("could not commit collateral transaction", logging.Error(err))
		}
		evts = l.buf.flush()
		l.log.Debug("transaction committed",
			logging.TxID(txID),
			logging.String("kind", tx.Kind),
			logging.Party(tx.Party),
			logging.Int("events", len(evts)),
		)
	}
	metrics.TxCounterInc(tx.Kind, string(status))

	// sequence numbers are assigned by the broker, send before journaling
	l.broker.SendBatch(evts)

	block := journal.Block{
		Time:      now,
		TxID:      txID,
		Kind:      tx.Kind,
		Party:     tx.Party,
		Status:    status,
		Events:    serialise(evts),
		StateHash: hex.EncodeToString(l.collateral.Hash()),
	}
	if txErr != nil {
		block.Error = txErr.Error()
	}
	stored, err := l.journal.Append(block)
	if err != nil {
		// the in-memory state moved on, the journal can't be trusted anymore
		l.log.Panic("could not append block to the journal",
			logging.TxID(txID),
			logging.Error(err),
		)
	}
	metrics.LedgerHeightSet(stored.Height)
	return stored, txErr
}

// exec runs the operation, turning a panic into a rejection so a bug in one
// operation does not leave a collateral transaction open.
func (l *Ledger) exec(ctx context.Context, tx Tx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("operation panicked",
				logging.String("kind", tx.Kind),
				logging.Reflect("panic", r),
			)
			err = fmt.Errorf("operation %s failed: %v", tx.Kind, r)
		}
	}()
	return tx.Exec(ctx)
}

// Close stops accepting operations and closes the journal.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.journal.Close()
}

func serialise(evts []events.Event) json.RawMessage {
	msgs := make([]*events.BusEvent, 0, len(evts))
	for _, e := range evts {
		msgs = append(msgs, e.StreamMessage())
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return json.RawMessage("[]")
	}
	return raw
}
