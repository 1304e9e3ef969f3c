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

	"code.swapex.io/swapex/gateway"
	"code.swapex.io/swapex/libs/num"

	"github.com/spf13/cobra"
)

func BuildCmdPool(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Query and provide liquidity to the CEL/LUM pool",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the reserves, total shares and spot prices of the pool",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Pool(ctx)
			})
		},
	})
	cmd.AddCommand(buildCmdPoolShares(w, gw, rf))
	cmd.AddCommand(buildCmdQuote(w, gw, rf, "quote-swap", "Quote the output of a swap", Gateway.QuoteSwap))
	cmd.AddCommand(buildCmdQuote(w, gw, rf, "quote-deposit", "Quote the amount of the other asset a deposit requires", Gateway.QuoteDeposit))
	cmd.AddCommand(buildCmdAddLiquidity(w, gw, rf))
	cmd.AddCommand(buildCmdRemoveLiquidity(w, gw, rf))
	cmd.AddCommand(buildCmdRemoveAllLiquidity(w, gw, rf))
	cmd.AddCommand(buildCmdSwap(w, gw, rf))
	return cmd
}

func buildCmdPoolShares(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var party string
	cmd := &cobra.Command{
		Use:   "shares",
		Short: "Show the shares held by a party",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("party", party); err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.PoolShares(ctx, party)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of the party")
	return cmd
}

type QuoteFlags struct {
	Asset  string
	Amount string
}

func (f *QuoteFlags) Validate() (string, *num.Uint, error) {
	if err := requireString("asset", f.Asset); err != nil {
		return "", nil, err
	}
	amount, err := parseAmount("amount", f.Amount)
	if err != nil {
		return "", nil, err
	}
	return f.Asset, amount, nil
}

func buildCmdQuote(w io.Writer, gw GatewayBuilder, rf *RootFlags, use, short string, quote func(Gateway, context.Context, string, *num.Uint) (*gateway.QuoteResponse, error)) *cobra.Command {
	f := QuoteFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			asset, amount, err := f.Validate()
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return quote(g, ctx, asset, amount)
			})
		},
	}
	cmd.Flags().StringVar(&f.Asset, "asset", "", "Asset of the amount, CEL or LUM")
	cmd.Flags().StringVar(&f.Amount, "amount", "", "Amount in base units")
	return cmd
}

type AddLiquidityFlags struct {
	Party   string
	Amount0 string
	Amount1 string
}

func (f *AddLiquidityFlags) Validate() (*num.Uint, *num.Uint, error) {
	if err := requireString("party", f.Party); err != nil {
		return nil, nil, err
	}
	amount0, err := parseAmount("amount0", f.Amount0)
	if err != nil {
		return nil, nil, err
	}
	amount1, err := parseAmount("amount1", f.Amount1)
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

func buildCmdAddLiquidity(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	f := AddLiquidityFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Deposit both assets into the pool in exchange for shares",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			amount0, amount1, err := f.Validate()
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.AddLiquidity(ctx, f.Party, amount0, amount1)
			})
		},
	}
	cmd.Flags().StringVar(&f.Party, "party", "", "Address of the liquidity provider")
	cmd.Flags().StringVar(&f.Amount0, "amount0", "", "Amount of CEL in base units")
	cmd.Flags().StringVar(&f.Amount1, "amount1", "", "Amount of LUM in base units")
	return cmd
}

func buildCmdRemoveLiquidity(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var party, shares string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Burn shares in exchange for a pro rata part of the reserves",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("party", party); err != nil {
				return err
			}
			amount, err := parseAmount("shares", shares)
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.RemoveLiquidity(ctx, party, amount)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of the liquidity provider")
	cmd.Flags().StringVar(&shares, "shares", "", "Number of shares to burn")
	return cmd
}

func buildCmdRemoveAllLiquidity(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var party string
	cmd := &cobra.Command{
		Use:   "remove-all",
		Short: "Burn every share held by a party",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("party", party); err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.RemoveAllLiquidity(ctx, party)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of the liquidity provider")
	return cmd
}

func buildCmdSwap(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var party string
	f := QuoteFlags{}
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap an amount of one asset for the other",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("party", party); err != nil {
				return err
			}
			asset, amount, err := f.Validate()
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Swap(ctx, party, asset, amount)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of the trader")
	cmd.Flags().StringVar(&f.Asset, "asset", "", "Asset sold, CEL or LUM")
	cmd.Flags().StringVar(&f.Amount, "amount", "", "Amount sold in base units")
	return cmd
}
