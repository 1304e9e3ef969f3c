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
	"os"

	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/genesis"
	"code.swapex.io/swapex/logging"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	config.HomeFlag

	Force bool `short:"f" long:"force" description:"Erase existing configuration, genesis and journal at the specified path"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	cfgLoader, err := config.InitialiseLoader(opts.Home)
	if err != nil {
		return fmt.Errorf("couldn't initialise configuration loader: %w", err)
	}

	configExists, err := cfgLoader.ConfigExists()
	if err != nil {
		return fmt.Errorf("couldn't verify configuration presence: %w", err)
	}

	if configExists && !opts.Force {
		return fmt.Errorf("configuration already exists at `%s` please remove it first or re-run using -f", cfgLoader.ConfigFilePath())
	}

	cfg := config.NewDefaultConfig()

	if configExists && opts.Force {
		// the journal of a previous run can't be started over
		if existing, err := cfgLoader.Get(); err == nil {
			journalPath := cfgLoader.Path(existing.Ledger.JournalPath)
			logger.Info("removing existing journal", logging.String("path", journalPath))
			if err := os.RemoveAll(journalPath); err != nil {
				return fmt.Errorf("couldn't remove journal at %s: %w", journalPath, err)
			}
		}
		cfgLoader.Remove()
	}

	if err := cfgLoader.Save(&cfg); err != nil {
		return fmt.Errorf("couldn't save configuration file: %w", err)
	}

	state := genesis.DefaultState()
	genesisPath := cfgLoader.Path(cfg.GenesisFile)
	if err := genesis.Save(genesisPath, &state); err != nil {
		return fmt.Errorf("couldn't save genesis file: %w", err)
	}

	logger.Info("configuration generated successfully",
		logging.String("config", cfgLoader.ConfigFilePath()),
		logging.String("genesis", genesisPath),
	)

	return nil
}

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	short := "Initializes a swapex node"
	long := "Generate the default configuration and genesis state required for a swapex node to start"

	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
