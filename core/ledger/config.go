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

package ledger

import (
	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/logging"
)

const namedLogger = "ledger"

// Config represent the configuration of the ledger runtime.
type Config struct {
	Level   encoding.LogLevel `long:"log-level"`
	ChainID string            `long:"chain-id" description:"identifier stamped on every event"`
	// An empty path keeps the journal in memory.
	JournalPath string `long:"journal-path" description:"directory of the block journal, relative to the home directory"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:       encoding.LogLevel{Level: logging.InfoLevel},
		ChainID:     "swapex-local",
		JournalPath: "journal",
	}
}
