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

package types

import (
	"time"

	"code.swapex.io/swapex/libs/num"
)

// FaucetState is a read-only view of a dispenser.
type FaucetState struct {
	Account             string        `json:"account"`
	Asset               string        `json:"asset"`
	AmountPerWithdrawal *num.Uint     `json:"amount_per_withdrawal"`
	Cooldown            time.Duration `json:"cooldown"`
	Balance             *num.Uint     `json:"balance"`
}

// FaucetAccount is a read-only view of one account's dispenser history.
type FaucetAccount struct {
	Party          string    `json:"party"`
	Asset          string    `json:"asset"`
	LastWithdrawal time.Time `json:"last_withdrawal"`
	NextWithdrawal time.Time `json:"next_withdrawal"`
	CanWithdraw    bool      `json:"can_withdraw"`
}
