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
	"time"

	"code.swapex.io/swapex/libs/num"

	"github.com/spf13/cobra"
)

func BuildCmdRewards(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Stake the native asset and claim CEL rewards",
	}

	cmd.AddCommand(buildCmdRewardsInfo(w, gw, rf))
	cmd.AddCommand(buildCmdFundRewards(w, gw, rf))
	cmd.AddCommand(buildCmdStake(w, gw, rf))
	cmd.AddCommand(buildCmdPartyOperation(w, gw, rf, "withdraw", "Withdraw the whole stake of a party", Gateway.WithdrawStake))
	cmd.AddCommand(buildCmdPartyOperation(w, gw, rf, "claim", "Claim the rewards earned by a party", Gateway.ClaimRewards))
	return cmd
}

func buildCmdRewardsInfo(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var party string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the rewards distribution, or the position of a party",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				if len(party) == 0 {
					return g.Rewards(ctx)
				}
				return g.Staker(ctx, party)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of a staker")
	return cmd
}

type FundRewardsFlags struct {
	Party    string
	Amount   string
	Duration time.Duration
}

func (f *FundRewardsFlags) Validate() (*num.Uint, error) {
	if err := requireString("party", f.Party); err != nil {
		return nil, err
	}
	if f.Duration <= 0 {
		return nil, MustBeSpecifiedError("duration")
	}
	return parseAmount("amount", f.Amount)
}

func buildCmdFundRewards(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	f := FundRewardsFlags{}
	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Start a new reward period distributing an amount over a duration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			amount, err := f.Validate()
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.FundRewards(ctx, f.Party, amount, f.Duration)
			})
		},
	}
	cmd.Flags().StringVar(&f.Party, "party", "", "Address of the funder")
	cmd.Flags().StringVar(&f.Amount, "amount", "", "Rewards to distribute in base units")
	cmd.Flags().DurationVar(&f.Duration, "duration", 0, "Length of the reward period, e.g. 24h")
	return cmd
}

func buildCmdStake(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	var party, amount string
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Stake an amount of the native asset",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("party", party); err != nil {
				return err
			}
			a, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Stake(ctx, party, a)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of the staker")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in base units")
	return cmd
}

func buildCmdPartyOperation[T any](w io.Writer, gw GatewayBuilder, rf *RootFlags, use, short string, op func(Gateway, context.Context, string) (T, error)) *cobra.Command {
	var party string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireString("party", party); err != nil {
				return err
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return op(g, ctx, party)
			})
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "Address of the party")
	return cmd
}
