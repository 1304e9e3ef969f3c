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
	"os/signal"
	"syscall"

	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/core/protocol"
	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/genesis"
	vgclose "code.swapex.io/swapex/libs/close"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"

	"github.com/jessevdk/go-flags"
)

type StartCmd struct {
	config.HomeFlag

	config.Config
}

var startCmd StartCmd

func (cmd *StartCmd) Execute(_ []string) error {
	log := logging.NewLoggerFromConfig(
		logging.NewDefaultConfig(),
	)
	defer log.AtExit()

	// we define this option to parse the cli args each time the config is
	// loaded. So that we can respect the cli flag precedence.
	parseFlagOpt := func(cfg *config.Config) error {
		_, err := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown).Parse()
		return err
	}

	cfgLoader, _, err := config.EnsureNodeConfig(cmd.Home)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	confWatcher, err := config.NewWatcher(ctx, log, cfgLoader, config.Use(parseFlagOpt))
	if err != nil {
		return err
	}
	conf := confWatcher.Get()

	if conf.Logging.Environment != log.GetEnvironment() {
		log = logging.NewLoggerFromConfig(conf.Logging)
		defer log.AtExit()
	}

	state, err := genesis.Load(cfgLoader.Path(conf.GenesisFile))
	if err != nil {
		return err
	}

	if err := metrics.Setup(conf.Metrics); err != nil {
		return fmt.Errorf("couldn't set up metrics: %w", err)
	}

	closer := vgclose.NewCloser()

	p, err := protocol.New(ctx, confWatcher, log, cfgLoader.Path(conf.Ledger.JournalPath), state, nil)
	if err != nil {
		return err
	}
	closer.Add(p.Stop)

	srv, err := gateway.New(ctx, log, conf.Gateway, p, p.GetBroker())
	if err != nil {
		_ = closer.CloseAll()
		return err
	}
	if conf.Metrics.Enabled {
		srv.ServeMetrics(conf.Metrics.Path)
	}
	ids := confWatcher.OnConfigUpdateWithID(func(cfg config.Config) { srv.ReloadConf(cfg.Gateway) })
	closer.AddFn(func() { confWatcher.Unregister(ids) })

	go func() {
		defer cancel()
		if err := srv.Start(); err != nil {
			log.Error("error starting the REST API", logging.Error(err))
		}
	}()
	closer.AddFn(srv.Stop)

	waitSig(ctx, log)

	if err := closer.CloseAll(); err != nil {
		log.Error("error stopping the node", logging.Error(err))
		return err
	}
	log.Info("node stopped with success")
	return nil
}

// waitSig will wait for a sigterm or sigint interrupt.
func waitSig(ctx context.Context, log *logging.Logger) {
	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGTERM)
	signal.Notify(gracefulStop, syscall.SIGINT)

	select {
	case sig := <-gracefulStop:
		log.Info("Caught signal", logging.String("name", fmt.Sprintf("%+v", sig)))
	case <-ctx.Done():
		// nothing to do
	}
}

func Start(ctx context.Context, parser *flags.Parser) error {
	startCmd = StartCmd{
		Config: config.NewDefaultConfig(),
	}
	cmd, err := parser.AddCommand("start", "Runs a swapex node", "Runs the ledger, its engines and the REST API as defined by the config files", &startCmd)
	if err != nil {
		return err
	}

	// Print nested groups under parent's name using `::` as the separator.
	for _, parent := range cmd.Groups() {
		for _, grp := range parent.Groups() {
			grp.ShortDescription = parent.ShortDescription + "::" + grp.ShortDescription
		}
	}
	return nil
}
