//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"code.swapex.io/swapex/core/broker"
	"code.swapex.io/swapex/core/collateral"
	"code.swapex.io/swapex/core/faucet"
	"code.swapex.io/swapex/core/ledger"
	"code.swapex.io/swapex/core/pool"
	"code.swapex.io/swapex/core/rewards"
	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"
)

const (
	configFileName  = "config.toml"
	genesisFileName = "genesis.json"
)

// Empty is used when a command or sub-command receives no argument and has no execution.
type Empty struct{}

// HomeFlag points the commands to the node home directory.
type HomeFlag struct {
	Home string `long:"home" description:"Path to the node home directory" default:".swapex"`
}

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config    `group:"Logging" namespace:"logging"`
	Broker     broker.Config     `group:"Broker" namespace:"broker"`
	Collateral collateral.Config `group:"Collateral" namespace:"collateral"`
	Ledger     ledger.Config     `group:"Ledger" namespace:"ledger"`
	Pool       pool.Config       `group:"Pool" namespace:"pool"`
	Rewards    rewards.Config    `group:"Rewards" namespace:"rewards"`
	Faucet     faucet.Config     `group:"Faucet" namespace:"faucet"`
	Gateway    gateway.Config    `group:"Gateway" namespace:"gateway"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`

	GenesisFile string `long:"genesis-file" description:"genesis state applied on start, relative to the home directory"`
}

// NewDefaultConfig returns a set of default configs for all swapex packages,
// as specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:     logging.NewDefaultConfig(),
		Broker:      broker.NewDefaultConfig(),
		Collateral:  collateral.NewDefaultConfig(),
		Ledger:      ledger.NewDefaultConfig(),
		Pool:        pool.NewDefaultConfig(),
		Rewards:     rewards.NewDefaultConfig(),
		Faucet:      faucet.NewDefaultConfig(),
		Gateway:     gateway.NewDefaultConfig(),
		Metrics:     metrics.NewDefaultConfig(),
		GenesisFile: genesisFileName,
	}
}
