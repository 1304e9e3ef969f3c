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

package collateral

import (
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
)

type journalKind int

const (
	journalBalance journalKind = iota
	journalAllowance
	journalSupply
)

// journalEntry holds the value a key had before it was first touched by the
// current transaction. A nil value means the key did not exist.
type journalEntry struct {
	kind      journalKind
	asset     string
	party     string
	allowance allowanceKey
	prev      *num.Uint
}

type journal struct {
	entries []journalEntry
}

// StartTx opens a transaction, every balance, allowance and supply change
// made until CommitTx or RollbackTx is recorded so it can be undone.
func (e *Engine) StartTx() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.journal != nil {
		return ErrTxInProgress
	}
	e.journal = &journal{}
	return nil
}

// CommitTx keeps every change made since StartTx.
func (e *Engine) CommitTx() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.journal == nil {
		return ErrNoTxInProgress
	}
	e.journal = nil
	return nil
}

// RollbackTx undoes every change made since StartTx, newest first.
func (e *Engine) RollbackTx() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.journal == nil {
		return ErrNoTxInProgress
	}
	entries := e.journal.entries
	e.journal = nil
	for i := len(entries) - 1; i >= 0; i-- {
		je := entries[i]
		switch je.kind {
		case journalBalance:
			if je.prev == nil {
				delete(e.balances[je.asset], je.party)
			} else {
				e.balances[je.asset][je.party] = je.prev
			}
		case journalAllowance:
			if je.prev == nil {
				delete(e.allowances[je.asset], je.allowance)
			} else {
				e.allowances[je.asset][je.allowance] = je.prev
			}
		case journalSupply:
			e.supply[je.asset] = je.prev
		}
	}
	e.log.Debug("transaction rolled back", logging.Int("changes", len(entries)))
	return nil
}

func (e *Engine) setBalance(asset, party string, v *num.Uint) {
	if e.journal != nil {
		var prev *num.Uint
		if b, ok := e.balances[asset][party]; ok {
			prev = b.Clone()
		}
		e.journal.entries = append(e.journal.entries, journalEntry{kind: journalBalance, asset: asset, party: party, prev: prev})
	}
	e.balances[asset][party] = v
}

func (e *Engine) setAllowance(asset string, key allowanceKey, v *num.Uint) {
	if e.journal != nil {
		var prev *num.Uint
		if a, ok := e.allowances[asset][key]; ok {
			prev = a.Clone()
		}
		e.journal.entries = append(e.journal.entries, journalEntry{kind: journalAllowance, asset: asset, allowance: key, prev: prev})
	}
	e.allowances[asset][key] = v
}

func (e *Engine) setSupply(asset string, v *num.Uint) {
	if e.journal != nil {
		e.journal.entries = append(e.journal.entries, journalEntry{kind: journalSupply, asset: asset, prev: e.supply[asset].Clone()})
	}
	e.supply[asset] = v
}
