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

package crypto

import (
	"github.com/ethereum/go-ethereum/common"
)

// EthereumChecksumAddress returns the EIP-55 form of a hex encoded address.
func EthereumChecksumAddress(s string) string {
	return common.HexToAddress(s).Hex()
}

// NormalisePartyID validates an account address and returns its checksumed
// form so the same account is never known under two spellings.
func NormalisePartyID(s string) (string, bool) {
	if !common.IsHexAddress(s) {
		return "", false
	}
	return EthereumChecksumAddress(s), true
}
