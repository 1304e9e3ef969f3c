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
	"io"

	"github.com/spf13/cobra"
)

func BuildCmdFaucet(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faucet",
		Short: "Withdraw test tokens from the faucets",
	}
	cmd.AddCommand(buildCmdFaucetWithdraw(w, gw, rf))
	cmd.AddCommand(buildCmdFaucetStatus(w, gw, rf))
	return cmd
}

func buildCmdFaucetWithdraw(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var asset, party string
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the fixed faucet amount of an asset",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("asset", asset); err != nil {
				return err
			}
			if err := requireString("party", party); err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.FaucetWithdraw(ctx, asset, party)
			})
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "Asset of the faucet")
	cmd.Flags().StringVar(&party, "party", "", "Address receiving the tokens")
	return cmd
}

func buildCmdFaucetStatus(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var asset, party string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every faucet, or when a party can withdraw again",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(party) > 0 {
				if err := requireString("asset", asset); err != nil {
					return err
				}
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				if len(party) == 0 {
					return g.Faucets(ctx)
				}
				return g.FaucetAccount(ctx, asset, party)
			})
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "Asset of the faucet")
	cmd.Flags().StringVar(&party, "party", "", "Address of the party")
	return cmd
}
