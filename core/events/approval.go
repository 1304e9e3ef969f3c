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

type Approval struct {
	*Base
	Owner   string
	Spender string
	Asset   string
	Amount  *num.Uint
}

type ApprovalPayload struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Asset   string `json:"asset"`
	Amount  string `json:"amount"`
}

func NewApproval(ctx context.Context, asset, owner, spender string, amount *num.Uint) *Approval {
	return &Approval{
		Base:    newBase(ctx, ApprovalEvent),
		Owner:   owner,
		Spender: spender,
		Asset:   asset,
		Amount:  amount.Clone(),
	}
}

func (a Approval) IsParty(id string) bool {
	return a.Owner == id || a.Spender == id
}

func (a Approval) IsAsset(id string) bool {
	return a.Asset == id
}

func (a Approval) StreamMessage() *BusEvent {
	return newBusEventFromBase(a.Base, ApprovalPayload{
		Owner:   a.Owner,
		Spender: a.Spender,
		Asset:   a.Asset,
		Amount:  a.Amount.String(),
	})
}
