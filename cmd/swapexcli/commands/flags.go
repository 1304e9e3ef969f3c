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
	"fmt"

	"code.swapex.io/swapex/libs/num"
)

type FlagError struct {
	message string
}

func (f FlagError) Error() string {
	return f.message
}

func MustBeSpecifiedError(name string) error {
	return FlagError{message: fmt.Sprintf("--%s flag must be specified", name)}
}

func InvalidFlagFormatError(name string) error {
	return FlagError{message: fmt.Sprintf("--%s flag has not a valid format", name)}
}

func requireString(name, value string) error {
	if len(value) == 0 {
		return MustBeSpecifiedError(name)
	}
	return nil
}

// parseAmount reads a base unit amount, as the gateway expects it.
func parseAmount(name, value string) (*num.Uint, error) {
	if len(value) == 0 {
		return nil, MustBeSpecifiedError(name)
	}
	amount, overflow := num.UintFromString(value, 10)
	if overflow {
		return nil, InvalidFlagFormatError(name)
	}
	return amount, nil
}
