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

package main

import (
	"context"
	"fmt"

	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/logging"

	"github.com/jessevdk/go-flags"
)

type VerifyCmd struct {
	config.HomeFlag
}

var verifyCmd VerifyCmd

func (opts *VerifyCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	cfgLoader, cfg, err := config.EnsureNodeConfig(opts.Home)
	if err != nil {
		return err
	}

	j, err := journal.New(log, cfgLoader.Path(cfg.Ledger.JournalPath))
	if err != nil {
		return fmt.Errorf("couldn't open journal: %w", err)
	}
	defer j.Close()

	height, err := j.Verify()
	if err != nil {
		return fmt.Errorf("journal verification failed after block %d: %w", height, err)
	}

	log.Info("journal verified", logging.Uint64("height", height))
	return nil
}

func Verify(ctx context.Context, parser *flags.Parser) error {
	verifyCmd = VerifyCmd{}

	short := "Verifies the block journal"
	long := "Walk the block journal of a node and check every block hash and link of its chain"

	_, err := parser.AddCommand("verify", short, long, &verifyCmd)
	return err
}
