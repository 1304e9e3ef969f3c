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

func BuildCmdLedger(w io.Writer, gw GatewayBuilder, rf *RootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the journal of recorded operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "head",
		Short: "Show the last recorded block",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Head(ctx)
			})
		},
	})

	var height uint64
	block := &cobra.Command{
		Use:   "block",
		Short: "Show the block at a given height",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if height == 0 {
				return MustBeSpecifiedError("height")
			}
			return run(w, gw, rf, func(ctx context.Context, g Gateway) (interface{}, error) {
				return g.Block(ctx, height)
			})
		},
	}
	block.Flags().Uint64Var(&height, "height", 0, "Height of the block, starting at 1")
	cmd.AddCommand(block)
	return cmd
}
