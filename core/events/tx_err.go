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
)

// TxErr is emitted when an operation submitted to the ledger is rejected.
// None of the rejected operation's other events are ever emitted.
type TxErr struct {
	*Base
	party string
	kind  string
	err   string
}

type TxErrPayload struct {
	Party string `json:"party"`
	Kind  string `json:"kind"`
	Err   string `json:"err"`
}

func NewTxErrEvent(ctx context.Context, err error, party, kind string) *TxErr {
	evt := &TxErr{
		Base:  newBase(ctx, TxErrEvent),
		party: party,
		kind:  kind,
	}
	if err != nil {
		evt.err = err.Error()
	}
	return evt
}

func (t TxErr) IsParty(id string) bool {
	return t.party == id
}

func (t TxErr) Party() string {
	return t.party
}

func (t TxErr) Kind() string {
	return t.kind
}

func (t TxErr) Error() string {
	return t.err
}

func (t TxErr) StreamMessage() *BusEvent {
	return newBusEventFromBase(t.Base, TxErrPayload{
		Party: t.party,
		Kind:  t.kind,
		Err:   t.err,
	})
}
