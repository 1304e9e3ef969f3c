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
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
)

// PoolInfo is the pool state along with the spot prices of both assets.
func (p *Protocol) Pool() types.PoolInfo {
	info := types.PoolInfo{
		PoolState: p.services.pool.State(),
		Price0:    num.DecimalZero(),
		Price1:    num.DecimalZero(),
	}
	if price, err := p.services.pool.SpotPrice(info.Asset0); err == nil {
		info.Price0 = price
	}
	if price, err := p.services.pool.SpotPrice(info.Asset1); err == nil {
		info.Price1 = price
	}
	return info
}

func (p *Protocol) PoolPosition(party string) (types.LiquidityPosition, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return types.LiquidityPosition{}, err
	}
	return p.services.pool.Position(party), nil
}

func (p *Protocol) QuoteSwap(assetIn string, amountIn *num.Uint) (*num.Uint, error) {
	return p.services.pool.QuoteSwapOutput(assetIn, amountIn)
}

func (p *Protocol) QuoteDeposit(asset string, amount *num.Uint) (*num.Uint, error) {
	return p.services.pool.QuoteMatchingDeposit(asset, amount)
}

func (p *Protocol) Rewards() types.RewardsState {
	return p.services.rewards.State()
}

func (p *Protocol) Staker(party string) (types.StakerState, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return types.StakerState{}, err
	}
	return p.services.rewards.Staker(party), nil
}

func (p *Protocol) Faucets() []types.FaucetState {
	all := p.services.faucets.All()
	out := make([]types.FaucetState, 0, len(all))
	for _, f := range all {
		out = append(out, f.State())
	}
	return out
}

func (p *Protocol) FaucetAccount(asset, party string) (types.FaucetAccount, error) {
	party, err := normaliseParty(party)
	if err != nil {
		return types.FaucetAccount{}, err
	}
	f, err := p.services.faucets.Get(asset)
	if err != nil {
		return types.FaucetAccount{}, err
	}
	return f.AccountState(party), nil
}

// Balance accepts engine accounts so their holdings can be inspected.
func (p *Protocol) Balance(asset, party string) (types.Balance, error) {
	party, err := normaliseAccount(party)
	if err != nil {
		return types.Balance{}, err
	}
	if !p.services.collateral.AssetExists(asset) {
		return types.Balance{}, ErrUnknownAsset
	}
	return types.Balance{
		Asset:   asset,
		Party:   party,
		Balance: p.services.collateral.BalanceOf(asset, party),
	}, nil
}

func (p *Protocol) Assets() []types.Asset {
	return p.services.collateral.Assets()
}

func (p *Protocol) Head() (*journal.Block, error) {
	return p.services.journal.Head()
}

func (p *Protocol) Block(height uint64) (*journal.Block, error) {
	return p.services.journal.Block(height)
}

// VerifyJournal recomputes the hash chain and returns the height verified.
func (p *Protocol) VerifyJournal() (uint64, error) {
	return p.services.journal.Verify()
}
