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
	"code.swapex.io/swapex/core/events"
)

// gen hands out sequence numbers, restarting at 1 for every block.
type gen struct {
	blockHeight int64
	seq         uint64
}

func newGen() *gen {
	return &gen{}
}

func (g *gen) setSequence(evts ...events.Event) []events.Event {
	if len(evts) == 0 {
		return nil
	}
	if h := evts[0].BlockNr(); h != g.blockHeight {
		g.blockHeight = h
		g.seq = 0
	}
	for _, e := range evts {
		g.seq++
		e.SetSequenceID(g.seq)
	}
	return evts
}
