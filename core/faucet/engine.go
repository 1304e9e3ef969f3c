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

package faucet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
)

var (
	ErrTooManyRequests   = errors.New("too many requests, cooldown not elapsed")
	ErrInsufficientFunds = errors.New("faucet has insufficient funds")
	ErrInvalidConfig     = errors.New("invalid faucet configuration")
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.swapex.io/swapex/core/faucet Collateral

// Collateral is the fungible asset primitive the faucet pays out with.
type Collateral interface {
	BalanceOf(asset, party string) *num.Uint
	Transfer(ctx context.Context, asset, from, to string, amount *num.Uint) (*types.LedgerMovement, error)
}

// Broker send events.
type Broker interface {
	Send(event events.Event)
}

// TimeService provide the time of the current block.
type TimeService interface {
	GetTimeNow() time.Time
}

// Engine dispenses a fixed amount of one asset, at most once per cooldown
// for each account.
type Engine struct {
	log *logging.Logger

	broker      Broker
	collateral  Collateral
	timeService TimeService

	asset    string
	amount   *num.Uint
	cooldown time.Duration
	account  string

	mu             sync.Mutex
	lastWithdrawal map[string]time.Time
}

// AccountName returns the name of the account holding the funds of the
// faucet of the given asset.
func AccountName(asset string) string {
	return "faucet-" + asset
}

// New creates the dispenser described by cfg.
func New(log *logging.Logger, cfg AssetConfig, collateral Collateral, broker Broker, ts TimeService) (*Engine, error) {
	if len(cfg.Asset) == 0 {
		return nil, fmt.Errorf("%w: missing asset", ErrInvalidConfig)
	}
	amount := cfg.AmountPerWithdrawal.Get()
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: zero amount for %s", ErrInvalidConfig, cfg.Asset)
	}

	return &Engine{
		log:            log,
		broker:         broker,
		collateral:     collateral,
		timeService:    ts,
		asset:          cfg.Asset,
		amount:         amount,
		cooldown:       cfg.Cooldown.Get(),
		account:        types.EngineAccount(AccountName(cfg.Asset)),
		lastWithdrawal: map[string]time.Time{},
	}, nil
}

// Account returns the id of the account the faucet pays out from.
func (e *Engine) Account() string {
	return e.account
}

func (e *Engine) Asset() string {
	return e.asset
}

// Withdraw pays the configured amount to party. Both the cooldown of the
// party and the faucet balance are checked.
func (e *Engine) Withdraw(ctx context.Context, party string) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.timeService.GetTimeNow()
	if next := e.nextWithdrawalTime(party); now.Before(next) {
		return nil, fmt.Errorf("%w: next withdrawal at %s", ErrTooManyRequests, next.Format(time.RFC3339))
	}
	if balance := e.collateral.BalanceOf(e.asset, e.account); balance.LT(e.amount) {
		return nil, ErrInsufficientFunds
	}

	if _, err := e.collateral.Transfer(ctx, e.asset, e.account, party, e.amount); err != nil {
		e.log.Error("could not pay out withdrawal",
			logging.AssetID(e.asset),
			logging.Party(party),
			logging.Error(err),
		)
		return nil, err
	}
	e.lastWithdrawal[party] = now

	e.log.Debug("faucet withdrawal",
		logging.AssetID(e.asset),
		logging.Party(party),
		logging.BigUint("amount", e.amount),
	)
	e.broker.Send(events.NewFaucetWithdrawal(ctx, party, e.asset, e.amount, now.UnixNano()))
	return e.amount.Clone(), nil
}

// WithdrawableAmount returns the amount paid out by a withdrawal.
func (e *Engine) WithdrawableAmount() *num.Uint {
	return e.amount.Clone()
}

func (e *Engine) Cooldown() time.Duration {
	return e.cooldown
}

// WithdrawalTime returns when party last withdrew, the zero time if never.
func (e *Engine) WithdrawalTime(party string) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastWithdrawal[party]
}

// NextWithdrawalTime returns the earliest time party can withdraw again.
func (e *Engine) NextWithdrawalTime(party string) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextWithdrawalTime(party)
}

func (e *Engine) nextWithdrawalTime(party string) time.Time {
	last, ok := e.lastWithdrawal[party]
	if !ok {
		// never withdrew, last counts as the epoch
		return time.Unix(0, 0).Add(e.cooldown)
	}
	return last.Add(e.cooldown)
}

// State returns the fixed setup and the current balance of the faucet.
func (e *Engine) State() types.FaucetState {
	return types.FaucetState{
		Account:             e.account,
		Asset:               e.asset,
		AmountPerWithdrawal: e.amount.Clone(),
		Cooldown:            e.cooldown,
		Balance:             e.collateral.BalanceOf(e.asset, e.account),
	}
}

// AccountState returns the withdrawal history of party.
func (e *Engine) AccountState(party string) types.FaucetAccount {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.nextWithdrawalTime(party)
	return types.FaucetAccount{
		Party:          party,
		Asset:          e.asset,
		LastWithdrawal: e.lastWithdrawal[party],
		NextWithdrawal: next,
		CanWithdraw:    !e.timeService.GetTimeNow().Before(next),
	}
}
