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

package rewards

import (
	"time"

	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/libs/num"
)

// Earned returns what party could claim right now.
func (e *Engine) Earned(party string) *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.earned(party, e.timeService.GetTimeNow())
}

// RewardPerShare returns the accumulator projected to the current time,
// scaled by 1e18.
func (e *Engine) RewardPerShare() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardPerShareAt(e.lastTimeRewardApplicable(e.timeService.GetTimeNow()))
}

func (e *Engine) LastTimeRewardApplicable() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTimeRewardApplicable(e.timeService.GetTimeNow())
}

// TotalRewardsToGive returns the amount of the last funding.
func (e *Engine) TotalRewardsToGive() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalRewards.Clone()
}

func (e *Engine) RewardRate() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardRate.Clone()
}

func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *Engine) PeriodFinish() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.periodFinish
}

func (e *Engine) TotalStaked() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalStaked.Clone()
}

func (e *Engine) StakedBalanceOf(party string) *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.stakers[party]; ok {
		return s.staked.Clone()
	}
	return num.UintZero()
}

// State returns a snapshot of the distributor.
func (e *Engine) State() types.RewardsState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.RewardsState{
		Account:            e.account,
		RewardAsset:        e.cfg.RewardAsset,
		StakeAsset:         e.cfg.StakeAsset,
		RewardRate:         e.rewardRate.Clone(),
		TotalRewardsToGive: e.totalRewards.Clone(),
		Duration:           int64(e.duration / time.Second),
		PeriodFinish:       e.periodFinish,
		LastUpdateTime:     e.lastUpdateTime,
		RewardPerShare:     e.rewardPerShare.Clone(),
		TotalStaked:        e.totalStaked.Clone(),
		Balance:            e.collateral.BalanceOf(e.cfg.RewardAsset, e.account),
	}
}

// Staker returns the view of a single account.
func (e *Engine) Staker(party string) types.StakerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := types.StakerState{
		Party:              party,
		Staked:             num.UintZero(),
		Earned:             e.earned(party, e.timeService.GetTimeNow()),
		RewardPerSharePaid: num.UintZero(),
	}
	if s, ok := e.stakers[party]; ok {
		st.Staked = s.staked.Clone()
		st.RewardPerSharePaid = s.paid.Clone()
	}
	return st
}
