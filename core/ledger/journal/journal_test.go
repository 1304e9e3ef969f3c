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
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"code.swapex.io/swapex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestJournal(t *testing.T, path string) *Journal {
	t.Helper()
	j, err := New(logging.NewTestLogger(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func appendBlocks(t *testing.T, j *Journal, n int) []*Block {
	t.Helper()
	out := make([]*Block, 0, n)
	for i := 0; i < n; i++ {
		b, err := j.Append(Block{
			Time:      time.Unix(int64(1000+i), 0).UTC(),
			TxID:      "tx",
			Kind:      "swap",
			Party:     "0x00000000000000000000000000000000000A11CE",
			Status:    StatusCommitted,
			StateHash: "deadbeef",
		})
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func TestAppendChainsBlocks(t *testing.T) {
	j := getTestJournal(t, "")

	_, err := j.Head()
	assert.ErrorIs(t, err, ErrEmptyJournal)
	assert.Equal(t, uint64(0), j.Height())

	blocks := appendBlocks(t, j, 3)
	assert.Equal(t, uint64(1), blocks[0].Height)
	assert.Empty(t, blocks[0].PrevHash)
	assert.Equal(t, blocks[0].Hash, blocks[1].PrevHash)
	assert.Equal(t, blocks[1].Hash, blocks[2].PrevHash)
	assert.Equal(t, json.RawMessage("[]"), blocks[0].Events)

	head, err := j.Head()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), head.Height)
	assert.Equal(t, blocks[2].Hash, head.Hash)

	b, err := j.Block(2)
	require.NoError(t, err)
	assert.Equal(t, blocks[1].Hash, b.Hash)
	assert.Equal(t, b.Hash, b.ComputeHash())

	_, err = j.Block(4)
	assert.ErrorIs(t, err, ErrBlockNotFound)

	n, err := j.Verify()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestVerifyDetectsTampering(t *testing.T) {
	j := getTestJournal(t, "")
	appendBlocks(t, j, 3)

	b, err := j.Block(2)
	require.NoError(t, err)
	b.Party = "0x0000000000000000000000000000000000000B0B"
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, j.db.Put(blockKey(2), raw, nil))

	n, err := j.Verify()
	assert.ErrorIs(t, err, ErrBrokenChain)
	assert.Equal(t, uint64(2), n)
}

func TestJournalSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal")

	j, err := New(logging.NewTestLogger(), path)
	require.NoError(t, err)
	blocks := appendBlocks(t, j, 2)
	require.NoError(t, j.Close())

	j = getTestJournal(t, path)
	head, err := j.Head()
	require.NoError(t, err)
	assert.Equal(t, blocks[1].Hash, head.Hash)

	next := appendBlocks(t, j, 1)
	assert.Equal(t, uint64(3), next[0].Height)
	assert.Equal(t, blocks[1].Hash, next[0].PrevHash)

	_, err = j.Verify()
	assert.NoError(t, err)
}
