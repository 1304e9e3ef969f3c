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

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"code.swapex.io/swapex/core/ledger/journal"
	"code.swapex.io/swapex/core/types"
	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/gateway/client"
	vgjson "code.swapex.io/swapex/libs/json"
	"code.swapex.io/swapex/libs/num"

	"github.com/spf13/cobra"
)

const (
	JSONOutput    = "json"
	CompactOutput = "compact"

	defaultTimeout = 30 * time.Second
)

var ErrUnsupportedOutput = errors.New("unsupported output")

type Error struct {
	Err string `json:"error"`
	// Receipt is set when the gateway recorded the operation as rejected.
	Receipt *types.Receipt `json:"receipt,omitempty"`
}

type Writer struct {
	Out io.Writer
	Err io.Writer
}

type RootFlags struct {
	Address string
	Retries uint64
	Output  string
}

// Gateway is the subset of the gateway client used by the commands.
type Gateway interface {
	Pool(ctx context.Context) (*types.PoolInfo, error)
	PoolShares(ctx context.Context, party string) (*types.LiquidityPosition, error)
	QuoteSwap(ctx context.Context, assetIn string, amountIn *num.Uint) (*gateway.QuoteResponse, error)
	QuoteDeposit(ctx context.Context, asset string, amount *num.Uint) (*gateway.QuoteResponse, error)
	AddLiquidity(ctx context.Context, party string, amount0, amount1 *num.Uint) (*types.Receipt, error)
	RemoveLiquidity(ctx context.Context, party string, shares *num.Uint) (*types.Receipt, error)
	RemoveAllLiquidity(ctx context.Context, party string) (*types.Receipt, error)
	Swap(ctx context.Context, party, assetIn string, amountIn *num.Uint) (*types.Receipt, error)
	Rewards(ctx context.Context) (*types.RewardsState, error)
	Staker(ctx context.Context, party string) (*types.StakerState, error)
	FundRewards(ctx context.Context, party string, amount *num.Uint, duration time.Duration) (*types.Receipt, error)
	Stake(ctx context.Context, party string, amount *num.Uint) (*types.Receipt, error)
	WithdrawStake(ctx context.Context, party string) (*types.Receipt, error)
	ClaimRewards(ctx context.Context, party string) (*types.Receipt, error)
	Faucets(ctx context.Context) ([]types.FaucetState, error)
	FaucetAccount(ctx context.Context, asset, party string) (*types.FaucetAccount, error)
	FaucetWithdraw(ctx context.Context, asset, party string) (*types.Receipt, error)
	Assets(ctx context.Context) ([]types.Asset, error)
	Balance(ctx context.Context, asset, party string) (*types.Balance, error)
	Approve(ctx context.Context, party, asset, spender string, amount *num.Uint) (*types.Receipt, error)
	Transfer(ctx context.Context, party, asset, to string, amount *num.Uint) (*types.Receipt, error)
	Head(ctx context.Context) (*journal.Block, error)
	Block(ctx context.Context, height uint64) (*journal.Block, error)
}

// GatewayBuilder is called once the flags are parsed, so the root flags are
// known when the client is built.
type GatewayBuilder func() (Gateway, error)

func Execute(w *Writer) {
	c := NewCmdRoot(w.Out)

	execErr := c.Execute()
	if execErr == nil {
		return
	}

	defer os.Exit(1)
	fprintError(w.Err, execErr)
}

func fprintError(w io.Writer, err error) {
	out := Error{Err: err.Error()}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		out.Receipt = apiErr.Receipt
	}
	if jsonErr := vgjson.PrettyPrint(w, out); jsonErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "couldn't format error as JSON: %v\n", jsonErr)
		_, _ = fmt.Fprintf(os.Stderr, "original error: %v\n", err)
	}
}

func NewCmdRoot(w io.Writer) *cobra.Command {
	rf := &RootFlags{}
	return BuildCmdRoot(w, newGatewayBuilder(rf), rf)
}

func BuildCmdRoot(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swapexcli",
		Short:         "Query and operate a SwapEx gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if rf.Output != JSONOutput && rf.Output != CompactOutput {
				return fmt.Errorf("%w: %q", ErrUnsupportedOutput, rf.Output)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&rf.Address, "address", client.DefaultAddress, "Address of the gateway")
	cmd.PersistentFlags().Uint64Var(&rf.Retries, "retries", 5, "Number of retries of a query when the gateway is unreachable")
	cmd.PersistentFlags().StringVarP(&rf.Output, "output", "o", JSONOutput, "Output format, json or compact")

	cmd.AddCommand(BuildCmdPool(w, gw, rf))
	cmd.AddCommand(BuildCmdRewards(w, gw, rf))
	cmd.AddCommand(BuildCmdFaucet(w, gw, rf))
	cmd.AddCommand(BuildCmdAsset(w, gw, rf))
	cmd.AddCommand(BuildCmdLedger(w, gw, rf))
	return cmd
}

func newGatewayBuilder(rf *RootFlags) GatewayBuilder {
	return func() (Gateway, error) {
		return client.New(rf.Address, client.WithRetries(rf.Retries))
	}
}

// run builds the gateway client, calls fn and prints what it returns.
func run(w io.Writer, gw GatewayBuilder, rf *RootFlags, fn func(ctx context.Context, g Gateway) (interface{}, error)) error {
	g, err := gw()
	if err != nil {
		return fmt.Errorf("couldn't initialise the gateway client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	resp, err := fn(ctx, g)
	if err != nil {
		return err
	}
	if rf.Output == CompactOutput {
		return vgjson.Print(w, resp)
	}
	return vgjson.PrettyPrint(w, resp)
}
