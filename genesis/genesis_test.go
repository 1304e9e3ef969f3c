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

package genesis_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"code.swapex.io/swapex/config/encoding"
	"code.swapex.io/swapex/genesis"
	"code.swapex.io/swapex/libs/num"
	"code.swapex.io/swapex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisState(t *testing.T) {
	t.Run("default state is valid", testDefaultStateIsValid)
	t.Run("saved state loads back", testSavedStateLoadsBack)
	t.Run("invalid states are rejected", testInvalidStatesAreRejected)
}

func testDefaultStateIsValid(t *testing.T) {
	s := genesis.DefaultState()
	require.NoError(t, s.Validate())

	// the deployer gets exactly what it provides as initial liquidity
	var cel, lum *num.Uint
	for _, a := range s.Allocations {
		if a.Party != genesis.DefaultDeployer {
			continue
		}
		switch a.Asset {
		case "CEL":
			cel = a.Amount.Get()
		case "LUM":
			lum = a.Amount.Get()
		}
	}
	require.NotNil(t, cel)
	require.NotNil(t, lum)
	assert.True(t, cel.EQ(s.Liquidity.Amount0.Get()))
	assert.True(t, lum.EQ(s.Liquidity.Amount1.Get()))
	assert.Equal(t, "10000000000000000000000", cel.String())
}

func testSavedStateLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	s := genesis.DefaultState()
	s.Rewards.Duration = encoding.Duration{Duration: 7 * 24 * time.Hour}
	require.NoError(t, genesis.Save(path, &s))

	loaded, err := genesis.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Assets, loaded.Assets)
	require.Len(t, loaded.Allocations, len(s.Allocations))
	for i := range s.Allocations {
		assert.Equal(t, s.Allocations[i].Party, loaded.Allocations[i].Party)
		assert.True(t, s.Allocations[i].Amount.Get().EQ(loaded.Allocations[i].Amount.Get()))
	}
	assert.Equal(t, 7*24*time.Hour, loaded.Rewards.Duration.Get())
}

func testInvalidStatesAreRejected(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*genesis.State)
		err    error
	}{
		{
			name:   "unknown asset",
			mutate: func(s *genesis.State) { s.Allocations[0].Asset = "BTC" },
			err:    genesis.ErrUnknownAsset,
		},
		{
			name:   "missing party",
			mutate: func(s *genesis.State) { s.Allocations[1].Party = "" },
			err:    genesis.ErrMissingParty,
		},
		{
			name:   "missing amount",
			mutate: func(s *genesis.State) { s.Allocations[2].Amount = encoding.Uint{} },
			err:    genesis.ErrMissingAmount,
		},
		{
			name:   "duplicated asset",
			mutate: func(s *genesis.State) { s.Assets = append(s.Assets, s.Assets[0]) },
			err:    genesis.ErrDuplicatedAsset,
		},
		{
			name:   "liquidity without party",
			mutate: func(s *genesis.State) { s.Liquidity.Party = "" },
			err:    genesis.ErrMissingParty,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := genesis.DefaultState()
			c.mutate(&s)
			assert.ErrorIs(t, s.Validate(), c.err)
		})
	}
}

func TestHandlerCallsBackInOrder(t *testing.T) {
	h := genesis.New(logging.NewTestLogger())
	var calls []string
	h.OnGenesisStateLoaded(func(context.Context, *genesis.State) error {
		calls = append(calls, "assets")
		return nil
	})
	h.OnGenesisStateLoaded(func(context.Context, *genesis.State) error {
		calls = append(calls, "pool")
		return nil
	})

	s := genesis.DefaultState()
	require.NoError(t, h.HandleGenesis(context.Background(), &s))
	assert.Equal(t, []string{"assets", "pool"}, calls)
}

func TestHandlerStopsOnFailure(t *testing.T) {
	h := genesis.New(logging.NewTestLogger())
	boom := errors.New("boom")
	var called bool
	h.OnGenesisStateLoaded(func(context.Context, *genesis.State) error { return boom })
	h.OnGenesisStateLoaded(func(context.Context, *genesis.State) error {
		called = true
		return nil
	})

	s := genesis.DefaultState()
	assert.ErrorIs(t, h.HandleGenesis(context.Background(), &s), boom)
	assert.False(t, called)
}
