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
	"errors"

	"code.swapex.io/swapex/libs/num"
)

var (
	ErrInvalidParty = errors.New("party must be a hex encoded account address")
	ErrUnknownAsset = errors.New("unknown asset")
)

const (
	// NativeAsset is the ledger's own currency. Stakes are denominated in it.
	NativeAsset = "native"
	// SystemOwner is the owner of the accounts held by the protocol itself,
	// every engine account id starts with it.
	SystemOwner = "*"
)

// EngineAccount returns the id of the account an engine holds funds in.
func EngineAccount(name string) string {
	return SystemOwner + name
}

// IsEngineAccount tells whether an account id belongs to the protocol.
func IsEngineAccount(id string) bool {
	return len(id) > 0 && id[:1] == SystemOwner
}

type TransferType int32

const (
	TransferTypeUnspecified TransferType = iota
	// TransferTypeMint creates new units out of nothing, genesis only.
	TransferTypeMint
	// TransferTypeTransfer moves funds owned by the sender.
	TransferTypeTransfer
	// TransferTypeTransferFrom moves funds on behalf of an owner using an allowance.
	TransferTypeTransferFrom
)

var transferTypeNames = map[TransferType]string{
	TransferTypeUnspecified:  "TRANSFER_TYPE_UNSPECIFIED",
	TransferTypeMint:         "TRANSFER_TYPE_MINT",
	TransferTypeTransfer:     "TRANSFER_TYPE_TRANSFER",
	TransferTypeTransferFrom: "TRANSFER_TYPE_TRANSFER_FROM",
}

func (t TransferType) String() string {
	if s, ok := transferTypeNames[t]; ok {
		return s
	}
	return transferTypeNames[TransferTypeUnspecified]
}

// Asset describes a fungible asset known to the ledger.
type Asset struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals uint32 `json:"decimals"`
}

// LedgerEntry is a single movement of funds between two accounts.
type LedgerEntry struct {
	FromAccount        string       `json:"from_account"`
	ToAccount          string       `json:"to_account"`
	Asset              string       `json:"asset"`
	Amount             *num.Uint    `json:"amount"`
	Type               TransferType `json:"type"`
	Timestamp          int64        `json:"timestamp"`
	FromAccountBalance *num.Uint    `json:"from_account_balance"`
	ToAccountBalance   *num.Uint    `json:"to_account_balance"`
}

func (l *LedgerEntry) Clone() *LedgerEntry {
	cpy := *l
	cpy.Amount = cloneOrZero(l.Amount)
	cpy.FromAccountBalance = cloneOrZero(l.FromAccountBalance)
	cpy.ToAccountBalance = cloneOrZero(l.ToAccountBalance)
	return &cpy
}

// LedgerMovement groups the entries produced by one collateral call.
type LedgerMovement struct {
	Entries []*LedgerEntry `json:"entries"`
}

func (l *LedgerMovement) Clone() *LedgerMovement {
	entries := make([]*LedgerEntry, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, e.Clone())
	}
	return &LedgerMovement{Entries: entries}
}

// Allocation is an amount of an asset credited to a party at genesis.
type Allocation struct {
	Party  string
	Asset  string
	Amount *num.Uint
}

func cloneOrZero(u *num.Uint) *num.Uint {
	if u == nil {
		return num.UintZero()
	}
	return u.Clone()
}

type Balance struct {
	Asset   string    `json:"asset"`
	Party   string    `json:"party"`
	Balance *num.Uint `json:"balance"`
}
