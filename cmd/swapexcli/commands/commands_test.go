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

package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"code.swapex.io/swapex/cmd/swapexcli/commands"
	"code.swapex.io/swapex/config"
	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/protocol"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/gateway/client"
	"code.swapex.io/swapex/genesis"
	"code.swapex.io/swapex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice  = "0x1111111111111111111111111111111111111111"
	tenCEL = "10000000000000000000"
)

func startGateway(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	log := logging.NewTestLogger()

	loader, err := config.InitialiseLoader(t.TempDir())
	require.NoError(t, err)
	cfg := config.NewDefaultConfig()
	require.NoError(t, loader.Save(&cfg))
	watcher, err := config.NewWatcher(ctx, log, loader)
	require.NoError(t, err)

	state := genesis.DefaultState()
	p, err := protocol.New(ctx, watcher, log, "", &state, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Stop() })

	srv, err := gateway.New(ctx, log, gateway.NewDefaultConfig(), p, p.GetBroker())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.HTTPHandler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func execute(t *testing.T, address string, args ...string) ([]byte, error) {
	t.Helper()
	w := &bytes.Buffer{}
	c := commands.NewCmdRoot(w)
	c.SetArgs(append(args, "--address", address, "--retries", "0"))
	err := c.Execute()
	return w.Bytes(), err
}

func TestPoolCommands(t *testing.T) {
	address := startGateway(t)

	out, err := execute(t, address, "pool", "info")
	require.NoError(t, err)
	info := types.PoolInfo{}
	require.NoError(t, json.Unmarshal(out, &info))
	assert.Equal(t, "10000000000000000000000", info.Reserve0.String())
	assert.Equal(t, "50000000000000000000000", info.Reserve1.String())

	out, err = execute(t, address, "pool", "quote-swap", "--asset", "CEL", "--amount", tenCEL)
	require.NoError(t, err)
	quote := gateway.QuoteResponse{}
	require.NoError(t, json.Unmarshal(out, &quote))
	assert.Equal(t, "49700547954784988936", quote.Quote.String())

	out, err = execute(t, address, "pool", "quote-deposit", "--asset", "CEL", "--amount", tenCEL)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &quote))
	assert.Equal(t, "50000000000000000000", quote.Quote.String())
}

func TestFaucetApproveAndSwapCommands(t *testing.T) {
	address := startGateway(t)

	out, err := execute(t, address, "faucet", "withdraw", "--asset", "CEL", "--party", alice)
	require.NoError(t, err)
	rcpt := types.Receipt{}
	require.NoError(t, json.Unmarshal(out, &rcpt))
	assert.Equal(t, protocol.KindFaucetWithdraw, rcpt.Kind)

	// the pool may not pull CEL before an allowance is given
	_, err = execute(t, address, "pool", "swap", "--party", alice, "--asset", "CEL", "--amount", tenCEL)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	require.NotNil(t, apiErr.Receipt)
	assert.Equal(t, string(journal.StatusRejected), apiErr.Receipt.Status)

	_, err = execute(t, address, "asset", "approve", "--party", alice, "--asset", "CEL", "--spender", "*pool", "--amount", tenCEL)
	require.NoError(t, err)
	_, err = execute(t, address, "pool", "swap", "--party", alice, "--asset", "CEL", "--amount", tenCEL)
	require.NoError(t, err)

	out, err = execute(t, address, "asset", "balance", "--asset", "LUM", "--party", alice, "-o", "compact")
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(out, []byte("\n")))
	bal := types.Balance{}
	require.NoError(t, json.Unmarshal(out, &bal))
	assert.Equal(t, "49700547954784988936", bal.Balance.String())

	out, err = execute(t, address, "ledger", "head")
	require.NoError(t, err)
	head := journal.Block{}
	require.NoError(t, json.Unmarshal(out, &head))
	assert.Equal(t, protocol.KindSwap, head.Kind)

	out, err = execute(t, address, "ledger", "block", "--height", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &head))
	assert.Equal(t, protocol.KindGenesis, head.Kind)
}

func TestRewardsCommands(t *testing.T) {
	address := startGateway(t)

	out, err := execute(t, address, "rewards", "info")
	require.NoError(t, err)
	st := types.RewardsState{}
	require.NoError(t, json.Unmarshal(out, &st))
	assert.True(t, st.TotalStaked.IsZero())

	_, err = execute(t, address, "rewards", "claim", "--party", alice)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
}

func TestFlagsValidation(t *testing.T) {
	tcs := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "missing party",
			args: []string{"pool", "shares"},
			err:  commands.MustBeSpecifiedError("party"),
		}, {
			name: "missing amount",
			args: []string{"pool", "quote-swap", "--asset", "CEL"},
			err:  commands.MustBeSpecifiedError("amount"),
		}, {
			name: "negative amount",
			args: []string{"rewards", "stake", "--party", alice, "--amount", "-1"},
			err:  commands.InvalidFlagFormatError("amount"),
		}, {
			name: "missing duration",
			args: []string{"rewards", "fund", "--party", alice, "--amount", "1"},
			err:  commands.MustBeSpecifiedError("duration"),
		}, {
			name: "missing spender",
			args: []string{"asset", "approve", "--party", alice, "--asset", "CEL", "--amount", "1"},
			err:  commands.MustBeSpecifiedError("spender"),
		}, {
			name: "missing height",
			args: []string{"ledger", "block"},
			err:  commands.MustBeSpecifiedError("height"),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := execute(tt, client.DefaultAddress, tc.args...)
			assert.Equal(tt, tc.err, err)
		})
	}

	_, err := execute(t, client.DefaultAddress, "pool", "info", "-o", "yaml")
	assert.ErrorIs(t, err, commands.ErrUnsupportedOutput)
}

func TestQuoteFlagsValidate(t *testing.T) {
	f := commands.QuoteFlags{Asset: "LUM", Amount: "1000"}
	asset, amount, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, "LUM", asset)
	assert.Equal(t, "1000", amount.String())

	f.Asset = ""
	_, _, err = f.Validate()
	assert.Equal(t, commands.MustBeSpecifiedError("asset"), err)
}
