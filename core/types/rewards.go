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
	"time"

	"code.swapex.io/swapex/libs/num"
)

// RewardsState is a read-only view of the staking reward distributor.
type RewardsState struct {
	Account            string    `json:"account"`
	RewardAsset        string    `json:"reward_asset"`
	StakeAsset         string    `json:"stake_asset"`
	RewardRate         *num.Uint `json:"reward_rate"`
	TotalRewardsToGive *num.Uint `json:"total_rewards_to_give"`
	Duration           int64     `json:"duration"`
	PeriodFinish       time.Time `json:"period_finish"`
	LastUpdateTime     time.Time `json:"last_update_time"`
	RewardPerShare     *num.Uint `json:"reward_per_share"`
	TotalStaked        *num.Uint `json:"total_staked"`
	Balance            *num.Uint `json:"balance"`
}

// StakerState is a read-only view of one account in the distributor.
type StakerState struct {
	Party              string    `json:"party"`
	Staked             *num.Uint `json:"staked"`
	Earned             *num.Uint `json:"earned"`
	RewardPerSharePaid *num.Uint `json:"reward_per_share_paid"`
}
