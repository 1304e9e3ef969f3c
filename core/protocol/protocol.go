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

package protocol

import (
	"context"
	"errors"
	"time"

	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/core/broker"
	"code.swapex.io/swapex/core/ledger"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/genesis"
	vgcrypto "code.swapex.io/swapex/libs/crypto"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"
)

var (
	ErrInvalidParty = types.ErrInvalidParty
	ErrUnknownAsset = types.ErrUnknownAsset
	// ErrJournalNotEmpty is returned when starting over a journal of a
	// previous run, the state it recorded lives in memory only.
	ErrJournalNotEmpty = errors.New("journal already holds blocks, remove it to start a new ledger")
)

// Operation kinds, as recorded in the journal.
const (
	KindGenesis            = "genesis"
	KindAddLiquidity       = "add_liquidity"
	KindRemoveLiquidity    = "remove_liquidity"
	KindRemoveAllLiquidity = "remove_all_liquidity"
	KindSwap               = "swap"
	KindFundRewards        = "fund_rewards"
	KindStake              = "stake"
	KindWithdrawStake      = "withdraw_stake"
	KindClaimRewards       = "claim_rewards"
	KindFaucetWithdraw     = "faucet_withdraw"
	KindApprove            = "approve"
	KindTransfer           = "transfer"
)

// Protocol is the SwapEx node: the engines, the ledger runtime ordering the
// operations on them, and the event broker.
type Protocol struct {
	log *logging.Logger

	confWatcher     *config.Watcher
	confListenerIDs []int

	services *allServices
}

// New builds every service and applies the genesis state as the first
// block. A nil clock uses the wall clock.
func New(
	ctx context.Context,
	confWatcher *config.Watcher,
	log *logging.Logger,
	journalPath string,
	state *genesis.State,
	clock ledger.Clock,
) (p *Protocol, err error) {
	defer func() {
		if err != nil {
			log.Error("unable to start protocol", logging.Error(err))
			return
		}

		ids := p.confWatcher.OnConfigUpdateWithID(
			func(cfg config.Config) { p.ReloadConf(cfg.Logging) },
		)
		p.confListenerIDs = ids
	}()

	svcs, err := newServices(ctx, log, confWatcher, journalPath, clock)
	if err != nil {
		return nil, err
	}
	if svcs.journal.Height() > 0 {
		_ = svcs.Stop()
		return nil, ErrJournalNotEmpty
	}

	p = &Protocol{
		log:         log,
		confWatcher: confWatcher,
		services:    svcs,
	}

	if _, err := p.submit(ctx, KindGenesis, "", func(ctx context.Context) (interface{}, error) {
		return nil, svcs.genesisHandler.HandleGenesis(ctx, state)
	}); err != nil {
		_ = svcs.Stop()
		return nil, err
	}
	return p, nil
}

func (p *Protocol) ReloadConf(cfg logging.Config) {
	if cfg.Environment != p.log.GetEnvironment() {
		p.log.Warn("the logging environment can only change on restart",
			logging.String("current", p.log.GetEnvironment()),
			logging.String("configured", cfg.Environment),
		)
	}
}

// Stop will stop all services of the protocol.
func (p *Protocol) Stop() error {
	p.log.Info("Stopping protocol services")
	p.confWatcher.Unregister(p.confListenerIDs)
	return p.services.Stop()
}

func (p *Protocol) GetBroker() *broker.Broker {
	return p.services.broker
}

// submit runs exec as one ledger operation. The receipt is returned along
// with the error of a rejected operation, it is only missing when the
// ledger is closed.
func (p *Protocol) submit(ctx context.Context, kind, party string, exec func(ctx context.Context) (interface{}, error)) (*types.Receipt, error) {
	var result interface{}
	block, err := p.services.ledger.Submit(ctx, ledger.Tx{
		Kind:  kind,
		Party: party,
		Exec: func(ctx context.Context) error {
			r, err := exec(ctx)
			result = r
			return err
		},
	})
	if block == nil {
		return nil, err
	}

	receipt := newReceipt(block)
	if err == nil {
		receipt.Result = result
		p.updateGauges()
	}
	return receipt, err
}

func (p *Protocol) updateGauges() {
	state := p.services.pool.State()
	metrics.PoolReserveSet(state.Asset0, state.Reserve0.ToDecimal())
	metrics.PoolReserveSet(state.Asset1, state.Reserve1.ToDecimal())
	metrics.TotalStakedSet(p.services.rewards.TotalStaked().ToDecimal())
}

func newReceipt(b *journal.Block) *types.Receipt {
	return &types.Receipt{
		Height: b.Height,
		TxID:   b.TxID,
		Time:   b.Time,
		Kind:   b.Kind,
		Status: string(b.Status),
		Error:  b.Error,
	}
}

func normaliseParty(party string) (string, error) {
	p, ok := vgcrypto.NormalisePartyID(party)
	if !ok {
		return "", ErrInvalidParty
	}
	return p, nil
}

// AddLiquidity deposits both assets of the pair from party, which must have
// approved the pool account for them.
func (p *Protocol) AddLiquidity(ctx context.Context, party string, amount0, amount1 *num.Uint) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindAddLiquidity, party, func(ctx context.Context) (interface{}, error) {
		shares, err := p.services.pool.AddLiquidity(ctx, party, amount0, amount1)
		if err != nil {
			return nil, err
		}
		return types.LiquidityResult{Shares: shares, Amount0: amount0.Clone(), Amount1: amount1.Clone()}, nil
	})
}

func (p *Protocol) RemoveLiquidity(ctx context.Context, party string, shares *num.Uint) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindRemoveLiquidity, party, func(ctx context.Context) (interface{}, error) {
		amount0, amount1, err := p.services.pool.RemoveLiquidity(ctx, party, shares)
		if err != nil {
			return nil, err
		}
		return types.LiquidityResult{Shares: shares.Clone(), Amount0: amount0, Amount1: amount1}, nil
	})
}

func (p *Protocol) RemoveAllLiquidity(ctx context.Context, party string) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindRemoveAllLiquidity, party, func(ctx context.Context) (interface{}, error) {
		shares := p.services.pool.SharesOf(party)
		amount0, amount1, err := p.services.pool.RemoveAllLiquidity(ctx, party)
		if err != nil {
			return nil, err
		}
		return types.LiquidityResult{Shares: shares, Amount0: amount0, Amount1: amount1}, nil
	})
}

// Swap sells amountIn of assetIn, which party must have approved the pool
// account for, against the other asset of the pair.
func (p *Protocol) Swap(ctx context.Context, party, assetIn string, amountIn *num.Uint) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindSwap, party, func(ctx context.Context) (interface{}, error) {
		out, err := p.services.pool.Swap(ctx, party, assetIn, amountIn)
		if err != nil {
			return nil, err
		}
		asset0, asset1 := p.services.pool.Assets()
		assetOut := asset0
		if assetIn == asset0 {
			assetOut = asset1
		}
		return types.SwapResult{AssetIn: assetIn, AmountIn: amountIn.Clone(), AssetOut: assetOut, AmountOut: out}, nil
	})
}

// FundRewards starts a reward period out of what the rewards account
// already holds.
func (p *Protocol) FundRewards(ctx context.Context, party string, amount *num.Uint, duration time.Duration) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindFundRewards, party, func(ctx context.Context) (interface{}, error) {
		if err := p.services.rewards.FundRewards(ctx, party, amount, duration); err != nil {
			return nil, err
		}
		return p.services.rewards.State(), nil
	})
}

// Stake deposits amount of the native asset of party.
func (p *Protocol) Stake(ctx context.Context, party string, amount *num.Uint) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindStake, party, func(ctx context.Context) (interface{}, error) {
		if err := p.services.rewards.Stake(ctx, party, amount); err != nil {
			return nil, err
		}
		return types.AmountResult{Asset: p.services.rewards.StakeAsset(), Amount: amount.Clone()}, nil
	})
}

func (p *Protocol) WithdrawStake(ctx context.Context, party string) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindWithdrawStake, party, func(ctx context.Context) (interface{}, error) {
		amount, err := p.services.rewards.Withdraw(ctx, party)
		if err != nil {
			return nil, err
		}
		return types.AmountResult{Asset: p.services.rewards.StakeAsset(), Amount: amount}, nil
	})
}

func (p *Protocol) ClaimRewards(ctx context.Context, party string) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindClaimRewards, party, func(ctx context.Context) (interface{}, error) {
		amount, err := p.services.rewards.GetRewards(ctx, party)
		if err != nil {
			return nil, err
		}
		return types.AmountResult{Asset: p.services.rewards.RewardAsset(), Amount: amount}, nil
	})
}

func (p *Protocol) FaucetWithdraw(ctx context.Context, asset, party string) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	f, err := p.services.faucets.Get(asset)
	if err != nil {
		return nil, err
	}
	return p.submit(ctx, KindFaucetWithdraw, party, func(ctx context.Context) (interface{}, error) {
		amount, err := f.Withdraw(ctx, party)
		if err != nil {
			return nil, err
		}
		return types.AmountResult{Asset: asset, Amount: amount}, nil
	})
}

// Approve lets spender move up to amount of party's asset. Spender is
// usually an engine account, e.g. the pool.
func (p *Protocol) Approve(ctx context.Context, party, asset, spender string, amount *num.Uint) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	spender, err = normaliseAccount(spender)
	if err != nil {
		return nil, err
	}
	if amount == nil {
		amount = num.UintZero()
	}
	return p.submit(ctx, KindApprove, party, func(ctx context.Context) (interface{}, error) {
		if err := p.services.collateral.Approve(ctx, asset, party, spender, amount); err != nil {
			return nil, err
		}
		return types.AmountResult{Asset: asset, Amount: amount.Clone()}, nil
	})
}

// Transfer moves amount of party's asset to another account, engine
// accounts included so the rewards can be deposited.
func (p *Protocol) Transfer(ctx context.Context, party, asset, to string, amount *num.Uint) (*types.Receipt, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return nil, err
	}
	to, err = normaliseAccount(to)
	if err != nil {
		return nil, err
	}
	if amount == nil {
		amount = num.UintZero()
	}
	return p.submit(ctx, KindTransfer, party, func(ctx context.Context) (interface{}, error) {
		if _, err := p.services.collateral.Transfer(ctx, asset, party, to, amount); err != nil {
			return nil, err
		}
		return types.AmountResult{Asset: asset, Amount: amount.Clone()}, nil
	})
}

// normaliseAccount accepts engine accounts on top of party addresses.
func normaliseAccount(account string) (string, error) {
	if types.IsEngineAccount(account) {
		return account, nil
	}
	return normaliseParty(account)
}
