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
	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/logging"
)

const namedLogger = "pool"

// Config represent the configuration of the pool engine.
type Config struct {
	Level  encoding.LogLevel `long:"log-level"`
	Asset0 string            `long:"asset0" description:"first asset of the pair, order matters for every API"`
	Asset1 string            `long:"asset1" description:"second asset of the pair"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:  encoding.LogLevel{Level: logging.InfoLevel},
		Asset0: "CEL",
		Asset1: "LUM",
	}
}
