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

	"code.swapex.io/swapex/core/types"
)

type LedgerMovements struct {
	*Base
	ledgerMovements []*types.LedgerMovement
}

// NewLedgerMovements returns an event with transfer responses - this is the replacement of the transfer buffer.
func NewLedgerMovements(ctx context.Context, ledgerMovements []*types.LedgerMovement) *LedgerMovements {
	return &LedgerMovements{
		Base:            newBase(ctx, LedgerMovementsEvent),
		ledgerMovements: cloneMovements(ledgerMovements),
	}
}

// LedgerMovements returns a deep copy of the movements carried by the event.
func (t LedgerMovements) LedgerMovements() []*types.LedgerMovement {
	return cloneMovements(t.ledgerMovements)
}

func (t LedgerMovements) IsParty(id string) bool {
	for _, m := range t.ledgerMovements {
		for _, e := range m.Entries {
			if e.FromAccount == id || e.ToAccount == id {
				return true
			}
		}
	}
	return false
}

func (t LedgerMovements) IsAsset(id string) bool {
	for _, m := range t.ledgerMovements {
		for _, e := range m.Entries {
			if e.Asset == id {
				return true
			}
		}
	}
	return false
}

func (t LedgerMovements) StreamMessage() *BusEvent {
	return newBusEventFromBase(t.Base, t.LedgerMovements())
}

func cloneMovements(in []*types.LedgerMovement) []*types.LedgerMovement {
	out := make([]*types.LedgerMovement, 0, len(in))
	for _, m := range in {
		out = append(out, m.Clone())
	}
	return out
}
