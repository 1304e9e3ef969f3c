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

package pool

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
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrInvalidAsset          = errors.New("asset is not traded by the pool")
	ErrInsufficientShares    = errors.New("insufficient shares")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrPoolEmpty             = errors.New("pool has no liquidity")
	ErrZeroSharesMinted      = errors.New("deposit too small to mint any share")
	ErrSameAssets            = errors.New("pool assets must be distinct")
)

// AccountName is the name of the account the pool holds its reserves in.
const AccountName = "pool"

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.swapex.io/swapex/core/pool Collateral,TimeService

// Collateral is the fungible asset primitive the pool moves funds with.
type Collateral interface {
	Transfer(ctx context.Context, asset, from, to string, amount *num.Uint) (*types.LedgerMovement, error)
	TransferFrom(ctx context.Context, asset, spender, from, to string, amount *num.Uint) (*types.LedgerMovement, error)
}

// Broker send events.
type Broker interface {
	Send(event events.Event)
}

// TimeService provide the time of the current block.
type TimeService interface {
	GetTimeNow() time.Time
}

// Engine is a constant product liquidity pool over two assets. It keeps the
// reserves and an internal share ledger, every mutating call is executed
// under a single lock.
type Engine struct {
	log *logging.Logger
	cfg Config

	broker      Broker
	collateral  Collateral
	timeService TimeService

	mu          sync.Mutex
	account     string
	asset0      string
	asset1      string
	reserve0    *num.Uint
	reserve1    *num.Uint
	totalShares *num.Uint
	shares      map[string]*num.Uint
}

// New creates an empty pool trading cfg.Asset0 against cfg.Asset1.
func New(log *logging.Logger, cfg Config, collateral Collateral, broker Broker, ts TimeService) (*Engine, error) {
	if len(cfg.Asset0) == 0 || len(cfg.Asset1) == 0 || cfg.Asset0 == cfg.Asset1 {
		return nil, fmt.Errorf("%w: %q, %q", ErrSameAssets, cfg.Asset0, cfg.Asset1)
	}
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:         log,
		cfg:         cfg,
		broker:      broker,
		collateral:  collateral,
		timeService: ts,
		account:     types.EngineAccount(AccountName),
		asset0:      cfg.Asset0,
		asset1:      cfg.Asset1,
		reserve0:    num.UintZero(),
		reserve1:    num.UintZero(),
		totalShares: num.UintZero(),
		shares:      map[string]*num.Uint{},
	}, nil
}

// ReloadConf updates the log level, the pair is fixed at creation.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.cfg.Level = cfg.Level
}

// Account returns the id of the account holding the reserves. Liquidity
// providers and traders approve it as the spender of their deposits.
func (e *Engine) Account() string {
	return e.account
}

// Assets returns the pair, in order.
func (e *Engine) Assets() (string, string) {
	return e.asset0, e.asset1
}

// QuoteSwapOutput returns the amount a swap of amountIn of assetIn would
// currently pay out. It never changes the state of the pool.
func (e *Engine) QuoteSwapOutput(assetIn string, amountIn *num.Uint) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrZeroAmount
	}
	reserveIn, reserveOut, _, err := e.sides(assetIn)
	if err != nil {
		return nil, err
	}
	if e.totalShares.IsZero() {
		return nil, ErrPoolEmpty
	}
	return amountOut(amountIn, reserveIn, reserveOut), nil
}

// QuoteMatchingDeposit returns how much of the other asset must be deposited
// alongside amountOne of assetOne to respect the current pool ratio.
func (e *Engine) QuoteMatchingDeposit(assetOne string, amountOne *num.Uint) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amountOne == nil || amountOne.IsZero() {
		return nil, ErrZeroAmount
	}
	reserveOne, reserveOther, _, err := e.sides(assetOne)
	if err != nil {
		return nil, err
	}
	if e.totalShares.IsZero() {
		return nil, ErrPoolEmpty
	}
	return matchingDeposit(amountOne, reserveOne, reserveOther), nil
}

// AddLiquidity deposits amount0 of asset0 and amount1 of asset1 from party,
// which must have approved the pool account for both, and mints shares in
// exchange.
func (e *Engine) AddLiquidity(ctx context.Context, party string, amount0, amount1 *num.Uint) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount0 == nil || amount1 == nil || amount0.IsZero() || amount1.IsZero() {
		return nil, ErrZeroAmount
	}

	minted := sharesToMint(amount0, amount1, e.reserve0, e.reserve1, e.totalShares)
	if minted.IsZero() {
		return nil, ErrZeroSharesMinted
	}

	if err := e.pull(ctx, party, pull{e.asset0, amount0}, pull{e.asset1, amount1}); err != nil {
		e.log.Debug("could not add liquidity",
			logging.Party(party),
			logging.Error(err),
		)
		return nil, err
	}

	e.reserve0.Add(e.reserve0, amount0)
	e.reserve1.Add(e.reserve1, amount1)
	e.totalShares.Add(e.totalShares, minted)
	e.sharesOf(party).Add(e.sharesOf(party), minted)

	e.log.Debug("liquidity added",
		logging.Party(party),
		logging.BigUint("amount0", amount0),
		logging.BigUint("amount1", amount1),
		logging.BigUint("shares", minted),
	)
	e.broker.Send(events.NewLiquidityAdded(ctx, party, e.asset0, e.asset1, amount0, amount1, minted, e.now()))
	return minted.Clone(), nil
}

// RemoveLiquidity burns shares of party and pays out the matching
// proportion of both reserves.
func (e *Engine) RemoveLiquidity(ctx context.Context, party string, shares *num.Uint) (*num.Uint, *num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLiquidity(ctx, party, shares)
}

// RemoveAllLiquidity burns every share held by party. A party without shares
// is left untouched and no event is emitted.
func (e *Engine) RemoveAllLiquidity(ctx context.Context, party string) (*num.Uint, *num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	held, ok := e.shares[party]
	if !ok || held.IsZero() {
		return num.UintZero(), num.UintZero(), nil
	}
	return e.removeLiquidity(ctx, party, held.Clone())
}

func (e *Engine) removeLiquidity(ctx context.Context, party string, shares *num.Uint) (*num.Uint, *num.Uint, error) {
	if shares == nil || shares.IsZero() {
		return nil, nil, ErrZeroAmount
	}
	held, ok := e.shares[party]
	if !ok || held.LT(shares) {
		return nil, nil, ErrInsufficientShares
	}

	amount0 := redeem(shares, e.reserve0, e.totalShares)
	amount1 := redeem(shares, e.reserve1, e.totalShares)

	if err := e.push(ctx, party, pull{e.asset0, amount0}, pull{e.asset1, amount1}); err != nil {
		e.log.Error("could not pay out liquidity",
			logging.Party(party),
			logging.Error(err),
		)
		return nil, nil, err
	}

	e.reserve0.Sub(e.reserve0, amount0)
	e.reserve1.Sub(e.reserve1, amount1)
	e.totalShares.Sub(e.totalShares, shares)
	held.Sub(held, shares)
	if held.IsZero() {
		delete(e.shares, party)
	}

	e.log.Debug("liquidity removed",
		logging.Party(party),
		logging.BigUint("amount0", amount0),
		logging.BigUint("amount1", amount1),
		logging.BigUint("shares", shares),
	)
	e.broker.Send(events.NewLiquidityRemoved(ctx, party, e.asset0, e.asset1, amount0, amount1, shares, e.now()))
	return amount0, amount1, nil
}

// Swap sells amountIn of assetIn from party, which must have approved the
// pool account, for the other asset of the pair.
func (e *Engine) Swap(ctx context.Context, party, assetIn string, amountIn *num.Uint) (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrZeroAmount
	}
	reserveIn, reserveOut, assetOut, err := e.sides(assetIn)
	if err != nil {
		return nil, err
	}
	if e.totalShares.IsZero() {
		return nil, ErrInsufficientLiquidity
	}

	out := amountOut(amountIn, reserveIn, reserveOut)
	if out.GTE(reserveOut) {
		return nil, ErrInsufficientLiquidity
	}

	if err := e.pull(ctx, party, pull{assetIn, amountIn}); err != nil {
		e.log.Debug("could not swap",
			logging.Party(party),
			logging.Error(err),
		)
		return nil, err
	}
	if err := e.push(ctx, party, pull{assetOut, out}); err != nil {
		// reserves cover out, this only fails if the pool account was drained
		// behind the engine's back
		e.log.Error("could not pay out swap",
			logging.Party(party),
			logging.Error(err),
		)
		e.refund(ctx, party, pull{assetIn, amountIn})
		return nil, err
	}

	reserveIn.Add(reserveIn, amountIn)
	reserveOut.Sub(reserveOut, out)

	e.log.Debug("swap executed",
		logging.Party(party),
		logging.AssetID(assetIn),
		logging.BigUint("amount-in", amountIn),
		logging.BigUint("amount-out", out),
	)
	e.broker.Send(events.NewSwap(ctx, party, assetIn, assetOut, amountIn, out, e.now()))
	return out, nil
}

// sides returns the reserve of asset, the reserve of the other asset and the
// other asset ID. The reserves returned are the live values.
func (e *Engine) sides(asset string) (*num.Uint, *num.Uint, string, error) {
	switch asset {
	case e.asset0:
		return e.reserve0, e.reserve1, e.asset1, nil
	case e.asset1:
		return e.reserve1, e.reserve0, e.asset0, nil
	}
	return nil, nil, "", fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
}

func (e *Engine) sharesOf(party string) *num.Uint {
	s, ok := e.shares[party]
	if !ok {
		s = num.UintZero()
		e.shares[party] = s
	}
	return s
}

func (e *Engine) now() int64 {
	return e.timeService.GetTimeNow().UnixNano()
}

type pull struct {
	asset  string
	amount *num.Uint
}

// pull moves the given amounts from party to the pool account. If any of
// them fails the ones already done are sent back so the call has no effect.
func (e *Engine) pull(ctx context.Context, party string, pulls ...pull) error {
	for i, p := range pulls {
		if _, err := e.collateral.TransferFrom(ctx, p.asset, e.account, party, e.account, p.amount); err != nil {
			e.refund(ctx, party, pulls[:i]...)
			return err
		}
	}
	return nil
}

// push moves the given amounts from the pool account to party.
func (e *Engine) push(ctx context.Context, party string, pushes ...pull) error {
	for i, p := range pushes {
		if p.amount.IsZero() {
			continue
		}
		if _, err := e.collateral.Transfer(ctx, p.asset, e.account, party, p.amount); err != nil {
			e.revert(ctx, party, pushes[:i]...)
			return err
		}
	}
	return nil
}

func (e *Engine) refund(ctx context.Context, party string, done ...pull) {
	for _, p := range done {
		if _, err := e.collateral.Transfer(ctx, p.asset, e.account, party, p.amount); err != nil {
			e.log.Panic("could not refund party", logging.Party(party), logging.Error(err))
		}
	}
}

func (e *Engine) revert(ctx context.Context, party string, done ...pull) {
	for _, p := range done {
		if p.amount.IsZero() {
			continue
		}
		if _, err := e.collateral.Transfer(ctx, p.asset, party, e.account, p.amount); err != nil {
			e.log.Panic("could not revert payout", logging.Party(party), logging.Error(err))
		}
	}
}
