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
	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/logging"
)

const namedLogger = "rewards"

// Config represent the configuration of the reward engine.
type Config struct {
	Level       encoding.LogLevel `long:"log-level"`
	RewardAsset string            `long:"reward-asset" description:"asset paid out to stakers"`
	StakeAsset  string            `long:"stake-asset" description:"asset stakers deposit"`
	// Admin is the only party allowed to fund the rewards, anyone can when empty.
	Admin                           string        `long:"admin" description:"party allowed to fund rewards"`
	RejectFundingDuringActivePeriod encoding.Bool `long:"reject-funding-during-active-period" description:"refuse to start a new funding period before the current one is over"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:       encoding.LogLevel{Level: logging.InfoLevel},
		RewardAsset: "CEL",
		StakeAsset:  types.NativeAsset,
	}
}
