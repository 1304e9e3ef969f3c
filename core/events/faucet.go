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

	"code.swapex.io/swapex/libs/num"
)

type FaucetWithdrawal struct {
	*Base
	Party     string
	Asset     string
	Amount    *num.Uint
	Timestamp int64
}

type FaucetWithdrawalPayload struct {
	Party     string `json:"party"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

func NewFaucetWithdrawal(ctx context.Context, party, asset string, amount *num.Uint, timestamp int64) *FaucetWithdrawal {
	return &FaucetWithdrawal{
		Base:      newBase(ctx, FaucetWithdrawalEvent),
		Party:     party,
		Asset:     asset,
		Amount:    amount.Clone(),
		Timestamp: timestamp,
	}
}

func (f FaucetWithdrawal) IsParty(id string) bool {
	return f.Party == id
}

func (f FaucetWithdrawal) IsAsset(id string) bool {
	return f.Asset == id
}

func (f FaucetWithdrawal) StreamMessage() *BusEvent {
	return newBusEventFromBase(f.Base, FaucetWithdrawalPayload{
		Party:     f.Party,
		Asset:     f.Asset,
		Amount:    f.Amount.String(),
		Timestamp: f.Timestamp,
	})
}
