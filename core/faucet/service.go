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
	"fmt"
	"sort"

	"code.swapex.io/swapex/logging"

	"github.com/pkg/errors"
)

var ErrUnknownFaucet = errors.New("no faucet for asset")

// Service holds the dispensers of every configured asset.
type Service struct {
	log     *logging.Logger
	cfg     Config
	engines map[string]*Engine
}

// NewService creates one dispenser per entry of cfg.Faucets.
func NewService(log *logging.Logger, cfg Config, collateral Collateral, broker Broker, ts TimeService) (*Service, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	s := &Service{
		log:     log,
		cfg:     cfg,
		engines: make(map[string]*Engine, len(cfg.Faucets)),
	}
	for _, fc := range cfg.Faucets {
		if _, ok := s.engines[fc.Asset]; ok {
			return nil, fmt.Errorf("%w: duplicate faucet for %s", ErrInvalidConfig, fc.Asset)
		}
		e, err := New(log, fc, collateral, broker, ts)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create faucet for %s", fc.Asset)
		}
		s.engines[fc.Asset] = e
	}
	return s, nil
}

// ReloadConf updates the log level, the dispensers themselves are fixed.
func (s *Service) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
	s.cfg.Level = cfg.Level
}

// Get returns the dispenser of asset.
func (s *Service) Get(asset string) (*Engine, error) {
	e, ok := s.engines[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFaucet, asset)
	}
	return e, nil
}

// All returns every dispenser, sorted by asset.
func (s *Service) All() []*Engine {
	out := make([]*Engine, 0, len(s.engines))
	for _, e := range s.engines {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].asset < out[j].asset })
	return out
}
