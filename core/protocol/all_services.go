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
	"fmt"

	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/core/broker"
	"code.swapex.io/swapex/core/collateral"
	"code.swapex.io/swapex/core/faucet"
	"code.swapex.io/swapex/core/ledger"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/pool"
	"code.swapex.io/swapex/core/rewards"
	"code.swapex.io/swapex/core/timeservice"
	"code.swapex.io/swapex/genesis"
	"code.swapex.io/swapex/logging"
)

type allServices struct {
	ctx             context.Context
	log             *logging.Logger
	confWatcher     *config.Watcher
	confListenerIDs []int
	conf            config.Config

	broker      *broker.Broker
	eventBuffer *ledger.EventBuffer
	timeService *timeservice.Svc

	collateral *collateral.Engine
	journal    *journal.Journal
	ledger     *ledger.Ledger

	pool           *pool.Engine
	rewards        *rewards.Engine
	faucets        *faucet.Service
	genesisHandler *genesis.Handler
}

func newServices(
	ctx context.Context,
	log *logging.Logger,
	conf *config.Watcher,
	journalPath string,
	clock ledger.Clock,
) (_ *allServices, err error) {
	svcs := &allServices{
		ctx:         ctx,
		log:         log,
		confWatcher: conf,
		conf:        conf.Get(),
	}

	svcs.broker = broker.New(svcs.ctx, svcs.log, svcs.conf.Broker)
	// engines never talk to the broker directly, their events are released
	// once the operation is committed
	svcs.eventBuffer = ledger.NewEventBuffer()
	svcs.timeService = timeservice.New(svcs.eventBuffer)

	svcs.collateral = collateral.New(svcs.log, svcs.conf.Collateral, svcs.timeService, svcs.eventBuffer)

	if svcs.pool, err = pool.New(svcs.log, svcs.conf.Pool, svcs.collateral, svcs.eventBuffer, svcs.timeService); err != nil {
		return nil, fmt.Errorf("couldn't create pool engine: %w", err)
	}
	svcs.rewards = rewards.New(svcs.log, svcs.conf.Rewards, svcs.collateral, svcs.eventBuffer, svcs.timeService)
	if svcs.faucets, err = faucet.NewService(svcs.log, svcs.conf.Faucet, svcs.collateral, svcs.eventBuffer, svcs.timeService); err != nil {
		return nil, fmt.Errorf("couldn't create faucets: %w", err)
	}

	if svcs.journal, err = journal.New(svcs.log, journalPath); err != nil {
		return nil, fmt.Errorf("couldn't open journal: %w", err)
	}
	svcs.ledger = ledger.New(svcs.log, svcs.conf.Ledger, svcs.journal, svcs.eventBuffer, svcs.collateral, svcs.broker, svcs.timeService, clock)

	svcs.genesisHandler = genesis.New(svcs.log)
	svcs.genesisHandler.OnGenesisStateLoaded(svcs.enableAssets)
	svcs.genesisHandler.OnGenesisStateLoaded(svcs.mintAllocations)
	svcs.genesisHandler.OnGenesisStateLoaded(svcs.seedLiquidity)
	svcs.genesisHandler.OnGenesisStateLoaded(svcs.fundRewards)

	svcs.registerConfigWatchers()
	return svcs, nil
}

func (svcs *allServices) registerConfigWatchers() {
	svcs.confListenerIDs = svcs.confWatcher.OnConfigUpdateWithID(
		func(cfg config.Config) { svcs.broker.ReloadConf(cfg.Broker) },
		func(cfg config.Config) { svcs.collateral.ReloadConf(cfg.Collateral) },
		func(cfg config.Config) { svcs.ledger.ReloadConf(cfg.Ledger) },
		func(cfg config.Config) { svcs.pool.ReloadConf(cfg.Pool) },
		func(cfg config.Config) { svcs.rewards.ReloadConf(cfg.Rewards) },
		func(cfg config.Config) { svcs.faucets.ReloadConf(cfg.Faucet) },
	)

	svcs.timeService.NotifyOnTick(svcs.confWatcher.OnTimeUpdate)
}

func (svcs *allServices) Stop() error {
	svcs.confWatcher.Unregister(svcs.confListenerIDs)
	return svcs.ledger.Close()
}

func (svcs *allServices) enableAssets(ctx context.Context, state *genesis.State) error {
	for _, a := range state.Assets {
		if err := svcs.collateral.EnableAsset(ctx, a); err != nil {
			return fmt.Errorf("couldn't enable asset %s: %w", a.ID, err)
		}
	}
	return nil
}

func (svcs *allServices) mintAllocations(ctx context.Context, state *genesis.State) error {
	for _, a := range state.Allocations {
		if _, err := svcs.collateral.Mint(ctx, a.Asset, a.Party, a.Amount.Get()); err != nil {
			return fmt.Errorf("couldn't allocate %s to %s: %w", a.Asset, a.Party, err)
		}
	}
	return nil
}

func (svcs *allServices) seedLiquidity(ctx context.Context, state *genesis.State) error {
	seed := state.Liquidity
	if seed == nil {
		return nil
	}
	asset0, asset1 := svcs.pool.Assets()
	amount0, amount1 := seed.Amount0.Get(), seed.Amount1.Get()
	if err := svcs.collateral.Approve(ctx, asset0, seed.Party, svcs.pool.Account(), amount0); err != nil {
		return err
	}
	if err := svcs.collateral.Approve(ctx, asset1, seed.Party, svcs.pool.Account(), amount1); err != nil {
		return err
	}
	if _, err := svcs.pool.AddLiquidity(ctx, seed.Party, amount0, amount1); err != nil {
		return fmt.Errorf("couldn't provide initial liquidity: %w", err)
	}
	return nil
}

func (svcs *allServices) fundRewards(ctx context.Context, state *genesis.State) error {
	seed := state.Rewards
	if seed == nil || seed.Duration.Get() <= 0 {
		return nil
	}
	if err := svcs.rewards.FundRewards(ctx, seed.Funder, seed.Amount.Get(), seed.Duration.Get()); err != nil {
		return fmt.Errorf("couldn't fund rewards: %w", err)
	}
	return nil
}
