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

package genesis

import (
	"encoding/json"
	"errors"
	"fmt"

	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/core/faucet"
	"code.swapex.io/swapex/core/rewards"
	"code.swapex.io/swapex/core/types"
	vgfs "code.swapex.io/swapex/libs/fs"
	"code.swapex.io/swapex/libs/num"
)

// DefaultDeployer owns the initial supply of every asset and seeds the pool.
const DefaultDeployer = "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"

var (
	ErrUnknownAsset    = errors.New("allocation of an unknown asset")
	ErrMissingParty    = errors.New("missing party")
	ErrMissingAmount   = errors.New("missing amount")
	ErrDuplicatedAsset = errors.New("asset declared twice")
)

// Allocation mints Amount of Asset to Party when the ledger starts.
type Allocation struct {
	Party  string        `json:"party"`
	Asset  string        `json:"asset"`
	Amount encoding.Uint `json:"amount"`
}

// Liquidity is the first deposit in the pool, made by Party out of its
// allocations.
type Liquidity struct {
	Party   string        `json:"party"`
	Amount0 encoding.Uint `json:"amount0"`
	Amount1 encoding.Uint `json:"amount1"`
}

// Rewards starts a reward period with what the rewards account was
// allocated. A zero duration leaves the funding to an operator.
type Rewards struct {
	Funder   string            `json:"funder"`
	Amount   encoding.Uint     `json:"amount"`
	Duration encoding.Duration `json:"duration"`
}

type State struct {
	Assets      []types.Asset `json:"assets"`
	Allocations []Allocation  `json:"allocations"`
	Liquidity   *Liquidity    `json:"liquidity,omitempty"`
	Rewards     *Rewards      `json:"rewards,omitempty"`
}

func units(n uint64) encoding.Uint {
	one := num.UintZero().Exp(num.NewUint(10), num.NewUint(18))
	return encoding.NewUint(num.UintZero().Mul(num.NewUint(n), one))
}

// DefaultState mirrors the reference deployment of the network: both tokens
// are minted to the deployer, the faucets and the rewards account get their
// share and the deployer provides the initial liquidity.
func DefaultState() State {
	return State{
		Assets: []types.Asset{
			{ID: types.NativeAsset, Symbol: "NATIVE", Decimals: 18},
			{ID: "CEL", Symbol: "CEL", Decimals: 18},
			{ID: "LUM", Symbol: "LUM", Decimals: 18},
		},
		Allocations: []Allocation{
			{Party: DefaultDeployer, Asset: types.NativeAsset, Amount: units(1000000)},
			{Party: DefaultDeployer, Asset: "CEL", Amount: units(10000)},
			{Party: types.EngineAccount(faucet.AccountName("CEL")), Asset: "CEL", Amount: units(200)},
			{Party: types.EngineAccount(rewards.AccountName), Asset: "CEL", Amount: units(5000)},
			{Party: DefaultDeployer, Asset: "LUM", Amount: units(50000)},
			{Party: types.EngineAccount(faucet.AccountName("LUM")), Asset: "LUM", Amount: units(1000)},
		},
		Liquidity: &Liquidity{
			Party:   DefaultDeployer,
			Amount0: units(10000),
			Amount1: units(50000),
		},
		Rewards: &Rewards{
			Funder: DefaultDeployer,
			Amount: units(5000),
		},
	}
}

// Validate checks the state is self consistent, balances are checked when
// it is applied.
func (s State) Validate() error {
	assets := make(map[string]struct{}, len(s.Assets))
	for _, a := range s.Assets {
		if _, ok := assets[a.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatedAsset, a.ID)
		}
		assets[a.ID] = struct{}{}
	}
	for i, a := range s.Allocations {
		if _, ok := assets[a.Asset]; !ok {
			return fmt.Errorf("allocation %d: %w: %s", i, ErrUnknownAsset, a.Asset)
		}
		if len(a.Party) == 0 {
			return fmt.Errorf("allocation %d: %w", i, ErrMissingParty)
		}
		if a.Amount.Uint == nil {
			return fmt.Errorf("allocation %d: %w", i, ErrMissingAmount)
		}
	}
	if s.Liquidity != nil && len(s.Liquidity.Party) == 0 {
		return fmt.Errorf("liquidity: %w", ErrMissingParty)
	}
	if s.Rewards != nil && s.Rewards.Duration.Get() > 0 && s.Rewards.Amount.Uint == nil {
		return fmt.Errorf("rewards: %w", ErrMissingAmount)
	}
	return nil
}

func Dump(s *State) (string, error) {
	bytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Load reads and validates the genesis file at path.
func Load(path string) (*State, error) {
	buf, err := vgfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &State{}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("couldn't decode genesis file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis file %s: %w", path, err)
	}
	return s, nil
}

// Save writes s as indented JSON at path.
func Save(path string, s *State) error {
	content, err := Dump(s)
	if err != nil {
		return err
	}
	return vgfs.WriteFile(path, []byte(content))
}
