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
	"time"

	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"
)

const (
	namedLogger     = "faucet"
	defaultCoolDown = 1 * time.Minute
)

// Config represent the configuration of the dispensers, one per asset.
type Config struct {
	Level   encoding.LogLevel `description:"Log level" long:"level"`
	Faucets []AssetConfig     `description:"one dispenser per asset" long:"faucets"`
}

// AssetConfig is the fixed setup of a single dispenser.
type AssetConfig struct {
	Asset               string            `description:"asset dispensed" long:"asset"`
	AmountPerWithdrawal encoding.Uint     `description:"amount paid out per withdrawal" long:"amount"`
	Cooldown            encoding.Duration `description:"minimum delay between two withdrawals of an account" long:"cooldown"`
}

func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		Faucets: []AssetConfig{
			{
				Asset:               "CEL",
				AmountPerWithdrawal: encoding.NewUint(num.MustUintFromString("10000000000000000000", 10)),
				Cooldown:            encoding.Duration{Duration: defaultCoolDown},
			},
			{
				Asset:               "LUM",
				AmountPerWithdrawal: encoding.NewUint(num.MustUintFromString("50000000000000000000", 10)),
				Cooldown:            encoding.Duration{Duration: defaultCoolDown},
			},
		},
	}
}
