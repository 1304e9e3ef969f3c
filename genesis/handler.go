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

package genesis

import (
	"context"

	"code.swapex.io/swapex/logging"
)

const namedLogger = "genesis"

// Handler hands the genesis state to every component that registered for
// it, in registration order.
type Handler struct {
	log *logging.Logger

	onGenesisStateLoadedCB []func(context.Context, *State) error
}

func New(log *logging.Logger) *Handler {
	return &Handler{
		log:                    log.Named(namedLogger),
		onGenesisStateLoadedCB: []func(context.Context, *State) error{},
	}
}

// HandleGenesis stops at the first callback failing.
func (h *Handler) HandleGenesis(ctx context.Context, state *State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	for _, f := range h.onGenesisStateLoadedCB {
		if err := f(ctx, state); err != nil {
			h.log.Error("could not apply genesis state", logging.Error(err))
			return err
		}
	}
	h.log.Info("genesis state applied",
		logging.Int("assets", len(state.Assets)),
		logging.Int("allocations", len(state.Allocations)),
	)
	return nil
}

func (h *Handler) OnGenesisStateLoaded(f func(context.Context, *State) error) {
	h.onGenesisStateLoadedCB = append(h.onGenesisStateLoadedCB, f)
}
