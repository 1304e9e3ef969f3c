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

package journal

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"time"

	"code.swapex.io/swapex/libs/crypto"
)

// Status of the operation recorded in a block.
type Status string

const (
	StatusCommitted Status = "COMMITTED"
	StatusRejected  Status = "REJECTED"
)

// Block is the record of a single submitted operation. Blocks are chained
// through PrevHash so any change to a stored block is detected by Verify.
type Block struct {
	Height    uint64          `json:"height"`
	Time      time.Time       `json:"time"`
	TxID      string          `json:"tx_id"`
	Kind      string          `json:"kind"`
	Party     string          `json:"party"`
	Status    Status          `json:"status"`
	Error     string          `json:"error,omitempty"`
	Events    json.RawMessage `json:"events"`
	StateHash string          `json:"state_hash"`
	PrevHash  string          `json:"prev_hash"`
	Hash      string          `json:"hash"`
}

// ComputeHash returns the hex encoded sha3-256 digest of every field of the
// block except Hash itself.
func (b *Block) ComputeHash() string {
	var height, ts [8]byte
	binary.BigEndian.PutUint64(height[:], b.Height)
	binary.BigEndian.PutUint64(ts[:], uint64(b.Time.UnixNano()))
	return hex.EncodeToString(crypto.HashAll(
		height[:],
		ts[:],
		[]byte(b.TxID),
		[]byte(b.Kind),
		[]byte(b.Party),
		[]byte(b.Status),
		[]byte(b.Error),
		b.Events,
		[]byte(b.StateHash),
		[]byte(b.PrevHash),
	))
}
