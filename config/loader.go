package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"code.swapex.io/swapex/core/faucet"
	vgfs "code.swapex.io/swapex/libs/fs"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

// Loader reads and writes the node configuration file of a home directory.
type Loader struct {
	home           string
	configFilePath string
}

func InitialiseLoader(home string) (*Loader, error) {
	if err := vgfs.EnsureDir(home); err != nil {
		return nil, fmt.Errorf("couldn't create home directory %s: %w", home, err)
	}
	return &Loader{
		home:           home,
		configFilePath: filepath.Join(home, configFileName),
	}, nil
}

func (l *Loader) Home() string {
	return l.home
}

func (l *Loader) ConfigFilePath() string {
	return l.configFilePath
}

// Path resolves a path of the configuration against the home directory.
func (l *Loader) Path(p string) string {
	if len(p) == 0 || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.home, p)
}

func (l *Loader) ConfigExists() (bool, error) {
	exists, err := vgfs.FileExists(l.configFilePath)
	if err != nil {
		return false, fmt.Errorf("couldn't verify file presence: %w", err)
	}
	return exists, nil
}

func (l *Loader) Save(cfg *Config) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return fmt.Errorf("couldn't encode configuration: %w", err)
	}
	if err := vgfs.WriteFile(l.configFilePath, buf.Bytes()); err != nil {
		return fmt.Errorf("couldn't write file at %s: %w", l.configFilePath, err)
	}
	return nil
}

func (l *Loader) Get() (*Config, error) {
	return Read(l.configFilePath)
}

func (l *Loader) Remove() {
	_ = os.RemoveAll(l.configFilePath)
}

// Read decodes the configuration file at path over the default
// configuration. Faucet entries missing an amount or a cooldown take the
// default ones.
func Read(path string) (*Config, error) {
	buf, err := vgfs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := NewDefaultConfig()
	defaults := cfg.Faucet.Faucets
	// decoding a list over the default one would merge entries by index
	cfg.Faucet.Faucets = nil

	md, err := toml.Decode(string(buf), &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown configuration keys in %s: %v", path, undecoded)
	}

	if len(cfg.Faucet.Faucets) == 0 {
		cfg.Faucet.Faucets = defaults
		return &cfg, nil
	}
	if err := completeFaucets(cfg.Faucet.Faucets, defaults); err != nil {
		return nil, errors.Wrap(err, "couldn't complete faucet configuration")
	}
	return &cfg, nil
}

func completeFaucets(faucets, defaults []faucet.AssetConfig) error {
	for i := range faucets {
		template := faucet.AssetConfig{Cooldown: defaults[0].Cooldown}
		for _, d := range defaults {
			if d.Asset == faucets[i].Asset {
				template = d
				break
			}
		}
		if err := mergo.Merge(&faucets[i], template); err != nil {
			return err
		}
	}
	return nil
}

// EnsureNodeConfig returns the configuration of an initialised home
// directory.
func EnsureNodeConfig(home string) (*Loader, *Config, error) {
	cfgLoader, err := InitialiseLoader(home)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't initialise configuration loader: %w", err)
	}

	configExists, err := cfgLoader.ConfigExists()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't verify configuration presence: %w", err)
	}
	if !configExists {
		return nil, nil, fmt.Errorf("node has not been initialised, please run `%s init`", os.Args[0])
	}

	cfg, err := cfgLoader.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't get configuration: %w", err)
	}

	return cfgLoader, cfg, nil
}
