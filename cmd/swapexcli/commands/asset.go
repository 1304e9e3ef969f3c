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

	"code.swapex.io/swapex/libs/num"

	"github.com/spf13/cobra"
)

func BuildCmdAsset(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage balances and allowances",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the assets known to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Assets(ctx)
			})
		},
	})
	cmd.AddCommand(buildCmdBalance(w, gw, rf))
	cmd.AddCommand(buildCmdAssetMovement(w, gw, rf, "approve", "Allow a spender to move an amount of an asset", "spender", Gateway.Approve))
	cmd.AddCommand(buildCmdAssetMovement(w, gw, rf, "transfer", "Transfer an amount of an asset", "to", Gateway.Transfer))
	return cmd
}

func buildCmdBalance(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var asset, party string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance of a party",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("asset", asset); err != nil {
				return err
			}
			if err := requireString("party", party); err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Balance(ctx, asset, party)
			})
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "Asset of the balance")
	cmd.Flags().StringVar(&party, "party", "", "Address of the party")
	return cmd
}

type AssetMovementFlags struct {
	Party        string
	Asset        string
	Counterparty string
	Amount       string
}

// buildCmdAssetMovement builds approve and transfer which only differ by
// the name of the counterparty flag.
func buildCmdAssetMovement[T any](w io.Writer, gw GatewayBuilder, rf *RootFlags, use, short, counterparty string, op func(Gateway, context.Context, string, string, string, *num.Uint) (T, error)) *cobra.Command {
	f := AssetMovementFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			required := []struct{ name, value string }{
				{"party", f.Party},
				{"asset", f.Asset},
				{counterparty, f.Counterparty},
			}
			for _, r := range required {
				if err := requireString(r.name, r.value); err != nil {
					return err
				}
			}
			amount, err := parseAmount("amount", f.Amount)
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return op(g, ctx, f.Party, f.Asset, f.Counterparty, amount)
			})
		},
	}
	cmd.Flags().StringVar(&f.Party, "party", "", "Address of the owner")
	cmd.Flags().StringVar(&f.Asset, "asset", "", "Asset moved")
	cmd.Flags().StringVar(&f.Counterparty, counterparty, "", "Address of the "+counterparty)
	cmd.Flags().StringVar(&f.Amount, "amount", "", "Amount in base units")
	return cmd
}
